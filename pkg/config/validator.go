package config

import (
	// blank import for embeds
	_ "embed"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"sigs.k8s.io/yaml"
)

//go:embed data/wheelforge_schema.json
var projectSchema []byte

// Validate checks raw wheelforge.yaml content against the embedded schema.
func Validate(yamlContents []byte) error {
	j, err := yaml.YAMLToJSON(yamlContents)
	if err != nil {
		return &SchemaError{Field: "(root)", Message: err.Error()}
	}

	schemaLoader := gojsonschema.NewBytesLoader(projectSchema)
	dataLoader := gojsonschema.NewBytesLoader(j)
	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return &SchemaError{Field: "(root)", Message: err.Error()}
	}
	if !result.Valid() {
		return toError(result.Errors())
	}
	return nil
}

func toError(errs []gojsonschema.ResultError) error {
	err := getMostSpecificError(errs)
	return &SchemaError{Field: err.Field(), Message: getDescription(err)}
}

func getDescription(err gojsonschema.ResultError) string {
	if err.Type() == "invalid_type" {
		if expectedType, ok := err.Details()["expected"].(string); ok {
			return "must be a " + humanReadableType(expectedType)
		}
	}
	return err.Description()
}

func humanReadableType(definition string) string {
	if definition[0:1] == "[" {
		allTypes := strings.Split(definition[1:len(definition)-1], ",")
		for i, t := range allTypes {
			allTypes[i] = humanReadableType(t)
		}
		return strings.Join(allTypes[0:len(allTypes)-1], ", ") + " or " + allTypes[len(allTypes)-1]
	}
	if definition == "object" {
		return "mapping"
	}
	if definition == "array" {
		return "list"
	}
	return definition
}

func getMostSpecificError(errors []gojsonschema.ResultError) gojsonschema.ResultError {
	mostSpecificError := 0
	for i, err := range errors {
		if specificity(err) > specificity(errors[mostSpecificError]) {
			mostSpecificError = i
			continue
		}

		if specificity(err) == specificity(errors[mostSpecificError]) {
			// Invalid type errors win in a tie-breaker for most specific field name
			if err.Type() == "invalid_type" && errors[mostSpecificError].Type() != "invalid_type" {
				mostSpecificError = i
			}
		}
	}
	return errors[mostSpecificError]
}

func specificity(err gojsonschema.ResultError) int {
	return len(strings.Split(err.Field(), "."))
}
