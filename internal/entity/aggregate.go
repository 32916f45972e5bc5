package entity

import "github.com/pgrxgen/pgrxgen/internal/metadata"

// AggregateArg is one direct (or ordered-set) aggregate argument
type AggregateArg struct {
	Name     string               `json:"name,omitempty"`
	UsedType metadata.TypeID      `json:"used_type,omitempty"`
	HostType string               `json:"host_type,omitempty"`
	Mapping  *metadata.SqlMapping `json:"mapping,omitempty"`
}

// Aggregate declares a SQL aggregate assembled from registered support
// functions. StateFn is mandatory; every other function slot is optional
// and named by bare function name resolved within the aggregate's module.
// Moving-state slots come as a matched set: declaring MovingStateFn
// requires MovingInverseFn, and MovingFinalFn is only valid with them.
type Aggregate struct {
	common
	StateType      string               `json:"state_type"`           // host type path or primitive spelling
	StateTypeID    metadata.TypeID      `json:"state_type_id,omitempty"`
	Args           []AggregateArg       `json:"args,omitempty"`
	OrderedSetArgs []AggregateArg       `json:"ordered_set_args,omitempty"`
	FinalType      *metadata.SqlMapping `json:"final_type,omitempty"`

	StateFn   string `json:"state_fn"`
	FinalFn   string `json:"final_fn,omitempty"`
	CombineFn string `json:"combine_fn,omitempty"`
	SerialFn  string `json:"serial_fn,omitempty"`
	DeserialFn string `json:"deserial_fn,omitempty"`

	MovingStateType string `json:"moving_state_type,omitempty"`
	MovingStateFn   string `json:"moving_state_fn,omitempty"`
	MovingInverseFn string `json:"moving_inverse_fn,omitempty"`
	MovingFinalFn   string `json:"moving_final_fn,omitempty"`

	InitialCondition       *string `json:"initial_condition,omitempty"`
	MovingInitialCondition *string `json:"moving_initial_condition,omitempty"`
	OrderedSet             bool    `json:"ordered_set,omitempty"`
	Hypothetical           bool    `json:"hypothetical,omitempty"`
	Parallel               string  `json:"parallel,omitempty"` // SAFE, RESTRICTED, UNSAFE
	FinalFuncModify        string  `json:"finalfunc_modify,omitempty"`
	MovingFinalFuncModify  string  `json:"mfinalfunc_modify,omitempty"`
}

// NewAggregate builds an aggregate descriptor with the mandatory state
// transition slot filled in
func NewAggregate(path, stateType, stateFn string, loc SourceLoc) *Aggregate {
	return &Aggregate{
		common:    common{Path: path, Loc: loc},
		StateType: stateType,
		StateFn:   stateFn,
	}
}

func (*Aggregate) Kind() Kind { return KindAggregate }

func (a *Aggregate) DotIdentifier() string { return "aggregate " + a.FullPath() }

// SupportFns returns every populated function slot as bare names
func (a *Aggregate) SupportFns() []string {
	var fns []string
	for _, fn := range []string{
		a.StateFn, a.FinalFn, a.CombineFn, a.SerialFn, a.DeserialFn,
		a.MovingStateFn, a.MovingInverseFn, a.MovingFinalFn,
	} {
		if fn != "" {
			fns = append(fns, fn)
		}
	}
	return fns
}
