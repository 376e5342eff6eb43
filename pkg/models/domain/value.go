package domain

// ValueState tells whether a cell holds a usable value.
type ValueState int

const (
	StateMissing ValueState = iota
	StatePresent
	StateInvalid
)

func (s ValueState) String() string {
	switch s {
	case StatePresent:
		return "present"
	case StateInvalid:
		return "invalid"
	default:
		return "missing"
	}
}

// Value is a single table cell. The zero Value is Missing.
// Invalid values keep the raw text that failed to parse or normalize;
// only Present values carry canonical text.
type Value struct {
	state ValueState
	text  string
}

func Present(text string) Value {
	return Value{state: StatePresent, text: text}
}

func Missing() Value {
	return Value{}
}

func Invalid(raw string) Value {
	return Value{state: StateInvalid, text: raw}
}

func (v Value) State() ValueState { return v.state }

func (v Value) IsPresent() bool { return v.state == StatePresent }

func (v Value) IsMissing() bool { return v.state == StateMissing }

func (v Value) IsInvalid() bool { return v.state == StateInvalid }

// Text returns the canonical text of a Present value and "" otherwise.
func (v Value) Text() string {
	if v.state != StatePresent {
		return ""
	}
	return v.text
}

// Raw returns the text the value was built from, including the rejected
// input of an Invalid value.
func (v Value) Raw() string { return v.text }

// Key identifies the value for equality checks such as duplicate detection.
// Two Missing values are equal; Invalid values compare on their raw text.
func (v Value) Key() string {
	switch v.state {
	case StatePresent:
		return "p:" + v.text
	case StateInvalid:
		return "i:" + v.text
	default:
		return "m:"
	}
}

// NullKey is like Key but folds Missing and Invalid together, matching how
// both end up as NULL once persisted.
func (v Value) NullKey() string {
	if v.state != StatePresent {
		return "null"
	}
	return "p:" + v.text
}

func (v Value) String() string {
	switch v.state {
	case StatePresent:
		return v.text
	case StateInvalid:
		return "<invalid:" + v.text + ">"
	default:
		return "<missing>"
	}
}
