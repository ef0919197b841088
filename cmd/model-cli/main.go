package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/goliatone/go-model/pkg/model"
	"github.com/goliatone/go-model/pkg/openapi"
)

func main() {
	source := flag.String("source", "schema.json", "OpenAPI document path or URL")
	component := flag.String("schema", "", "component schema to instantiate (prompted if empty)")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	src := parseSource(*source)
	if src == nil {
		log.Fatalf("invalid source: %q", *source)
	}

	doc, err := openapi.Load(ctx, src, openapi.WithHTTPClient(http.DefaultClient))
	if err != nil {
		log.Fatalf("Failed to load document: %v", err)
	}

	name := *component
	if name == "" {
		name, err = pickComponent(ctx, doc)
		if err != nil {
			log.Fatalf("Failed to pick schema: %v", err)
		}
	}

	schema, err := openapi.Derive(ctx, doc, name)
	if err != nil {
		log.Fatalf("Failed to derive schema: %v", err)
	}

	values, err := promptValues(schema)
	if err != nil {
		log.Fatalf("Prompt failed: %v", err)
	}

	instance, err := schema.FromPlain(values)
	if err != nil {
		log.Fatalf("Invalid input: %v", err)
	}
	if err := instance.Validate(); err != nil {
		log.Fatalf("Validation failed: %v", err)
	}

	data, err := instance.ToJSON()
	if err != nil {
		log.Fatalf("Failed to encode instance: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, data, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Instance written to %s\n", *output)
	} else {
		fmt.Println(string(data))
	}
}

func pickComponent(ctx context.Context, doc openapi.Document) (string, error) {
	names, err := openapi.Components(ctx, doc)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("document declares no component schemas")
	}
	var name string
	prompt := &survey.Select{
		Message: "Schema to instantiate:",
		Options: names,
	}
	if err := survey.AskOne(prompt, &name); err != nil {
		return "", err
	}
	return name, nil
}

// promptValues asks for every field of the schema in declaration order and
// returns the answers as plain values. Fields left empty stay unset so their
// defaults apply.
func promptValues(schema *model.Schema) (map[string]any, error) {
	values := map[string]any{}
	for _, field := range schema.Fields() {
		value, ok, err := promptField(field)
		if err != nil {
			return nil, err
		}
		if ok {
			values[field.Name()] = value
		}
	}
	return values, nil
}

func promptField(field *model.Field) (any, bool, error) {
	message := fieldMessage(field)

	if choices := field.Choices(); len(choices) > 0 {
		return promptChoice(message, choices)
	}

	switch field.Type() {
	case model.FieldTypeBoolean:
		var answer bool
		prompt := &survey.Confirm{Message: message}
		if def, ok := field.Default().(bool); ok {
			prompt.Default = def
		}
		if err := survey.AskOne(prompt, &answer); err != nil {
			return nil, false, err
		}
		return answer, true, nil
	case model.FieldTypeEmbedded, model.FieldTypeList, model.FieldTypeDict:
		answer, err := promptText(message + " (JSON, empty to skip)")
		if err != nil || answer == "" {
			return nil, false, err
		}
		var decoded any
		if err := json.Unmarshal([]byte(answer), &decoded); err != nil {
			return nil, false, fmt.Errorf("field %q: %w", field.Name(), err)
		}
		return decoded, true, nil
	case model.FieldTypeFloat:
		answer, err := promptText(message)
		if err != nil || answer == "" {
			return nil, false, err
		}
		parsed, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return nil, false, fmt.Errorf("field %q: %w", field.Name(), err)
		}
		return parsed, true, nil
	default:
		answer, err := promptText(message)
		if err != nil || answer == "" {
			return nil, false, err
		}
		return answer, true, nil
	}
}

func promptChoice(message string, choices []any) (any, bool, error) {
	options := make([]string, 0, len(choices)+1)
	options = append(options, "(skip)")
	for _, choice := range choices {
		options = append(options, fmt.Sprint(choice))
	}
	var answer string
	prompt := &survey.Select{Message: message, Options: options}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return nil, false, err
	}
	if answer == "(skip)" {
		return nil, false, nil
	}
	for _, choice := range choices {
		if fmt.Sprint(choice) == answer {
			return choice, true, nil
		}
	}
	return answer, true, nil
}

func promptText(message string) (string, error) {
	var answer string
	prompt := &survey.Input{Message: message}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func fieldMessage(field *model.Field) string {
	message := field.Name()
	if field.Required() {
		message += " (required)"
	}
	return message + ":"
}

func parseSource(raw string) openapi.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return openapi.SourceFromURL(path)
	}
	return openapi.SourceFromFile(path)
}
