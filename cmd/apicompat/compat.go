package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var supportedMethods = map[string]struct{}{
	"get":    {},
	"put":    {},
	"post":   {},
	"delete": {},
	"patch":  {},
}

type operation struct {
	Responses map[string]struct{}
	// Params is keyed "in:name", e.g. "query:userId".
	Params map[string]bool
}

type apiSpec struct {
	Paths map[string]map[string]operation
}

func loadSpec(path string) (apiSpec, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return apiSpec{}, err
	}
	return parseSpec(raw)
}

type rawOperation struct {
	Parameters []struct {
		Name     string `yaml:"name"`
		In       string `yaml:"in"`
		Required bool   `yaml:"required"`
	} `yaml:"parameters"`
	Responses map[string]yaml.Node `yaml:"responses"`
}

func parseSpec(raw []byte) (apiSpec, error) {
	var doc struct {
		Paths map[string]map[string]yaml.Node `yaml:"paths"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return apiSpec{}, err
	}
	if doc.Paths == nil {
		return apiSpec{}, errors.New("missing top-level paths field")
	}

	spec := apiSpec{Paths: make(map[string]map[string]operation)}
	for pathKey, entries := range doc.Paths {
		ops := make(map[string]operation)
		for methodKey, node := range entries {
			method := strings.ToLower(strings.TrimSpace(methodKey))
			if _, ok := supportedMethods[method]; !ok {
				continue
			}
			var op rawOperation
			if err := node.Decode(&op); err != nil {
				return apiSpec{}, fmt.Errorf("%s %s: %w", strings.ToUpper(method), pathKey, err)
			}

			responses := make(map[string]struct{}, len(op.Responses))
			for code := range op.Responses {
				if normalized := strings.ToLower(strings.TrimSpace(code)); normalized != "" {
					responses[normalized] = struct{}{}
				}
			}
			params := make(map[string]bool, len(op.Parameters))
			for _, p := range op.Parameters {
				params[p.In+":"+p.Name] = p.Required
			}
			ops[method] = operation{Responses: responses, Params: params}
		}
		if len(ops) > 0 {
			spec.Paths[pathKey] = ops
		}
	}
	return spec, nil
}

// compare lists every change in revision that would break a client of base.
func compare(base, revision apiSpec) []string {
	var issues []string

	for path, baseOps := range base.Paths {
		revOps, ok := revision.Paths[path]
		if !ok {
			issues = append(issues, fmt.Sprintf("removed path: %s", path))
			continue
		}

		for method, baseOp := range baseOps {
			label := strings.ToUpper(method) + " " + path
			revOp, ok := revOps[method]
			if !ok {
				issues = append(issues, fmt.Sprintf("removed operation: %s", label))
				continue
			}

			for code := range baseOp.Responses {
				if _, ok := revOp.Responses[code]; !ok {
					issues = append(issues, fmt.Sprintf("removed response code: %s -> %s", label, strings.ToUpper(code)))
				}
			}
			for param := range baseOp.Params {
				if _, ok := revOp.Params[param]; !ok {
					issues = append(issues, fmt.Sprintf("removed parameter: %s %s", label, param))
				}
			}
			for param, required := range revOp.Params {
				if _, existed := baseOp.Params[param]; required && !existed {
					issues = append(issues, fmt.Sprintf("new required parameter: %s %s", label, param))
				}
			}
		}
	}

	sort.Strings(issues)
	return issues
}
