package entity

// Trigger declares a trigger function. FunctionPath names the registered
// function backing it, which must carry the trigger return shape; the
// emitted wrapper symbol appends _wrapper to the function name.
type Trigger struct {
	common
	FunctionPath string `json:"function_path"`
}

// NewTrigger builds a trigger descriptor for the given backing function path
func NewTrigger(path, functionPath string, loc SourceLoc) *Trigger {
	return &Trigger{
		common:       common{Path: path, Loc: loc},
		FunctionPath: functionPath,
	}
}

func (*Trigger) Kind() Kind { return KindTrigger }

func (t *Trigger) DotIdentifier() string { return "trigger " + t.FullPath() }
