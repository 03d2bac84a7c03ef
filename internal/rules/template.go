package rules

import _ "embed"

//go:embed template.yaml
var template []byte

// Template returns a commented example rule file in YAML
func Template() []byte {
	return append([]byte(nil), template...)
}
