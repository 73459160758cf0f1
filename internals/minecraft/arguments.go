package minecraft

import "encoding/json"

// Argument is a single entry of `arguments.game` or `arguments.jvm`.
// The manifest format allows two shapes:
//
//	"--demo"
//	{"rules": […], "value": "--demo"}
//	{"rules": […], "value": ["--width", "${resolution_width}"]}
//
// A plain string is an argument without rules.
type Argument struct {
	// Value holds one or more tokens. Multiple tokens stay separate
	// (they may contain spaces and must not be joined).
	Value stringSlice `json:"value"`
	Rules Rules       `json:"rules,omitempty"`
}

// UnmarshalJSON handles both the plain string and the object shape
func (a *Argument) UnmarshalJSON(data []byte) error {
	if len(data) != 0 && data[0] == '"' {
		var plain string
		if err := json.Unmarshal(data, &plain); err != nil {
			return err
		}
		a.Value = stringSlice{plain}
		a.Rules = nil
		return nil
	}

	// alias hides UnmarshalJSON to avoid recursion
	type alias Argument
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*a = Argument(obj)
	return nil
}

// MarshalJSON writes rule-less single token arguments back as plain strings
func (a Argument) MarshalJSON() ([]byte, error) {
	if len(a.Rules) == 0 && len(a.Value) == 1 {
		return json.Marshal(a.Value[0])
	}
	type alias Argument
	return json.Marshal(alias(a))
}

// Applies checks the argument rules against the current platform
func (a *Argument) Applies() bool {
	return a.Rules.Applies()
}

// ArgumentTokens flattens the given arguments to the tokens that apply
// on the current platform
func ArgumentTokens(args []Argument) []string {
	tokens := make([]string, 0, len(args))
	for _, arg := range args {
		if !arg.Applies() {
			continue
		}
		tokens = append(tokens, arg.Value...)
	}
	return tokens
}
