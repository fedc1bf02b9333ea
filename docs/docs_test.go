package docs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

type openAPI struct {
	BasePath    string                                `json:"basePath"`
	Paths       map[string]map[string]json.RawMessage `json:"paths"`
	Definitions map[string]json.RawMessage            `json:"definitions"`
}

func readDoc(t *testing.T) openAPI {
	t.Helper()
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)
	var doc openAPI
	require.NoError(t, json.Unmarshal([]byte(raw), &doc), "rendered document must be valid JSON")
	return doc
}

var routerAnnotation = regexp.MustCompile(`(?m)^// @Router (\S+) \[(\w+)\]`)

func TestDoc_CoversEveryAnnotatedRoute(t *testing.T) {
	doc := readDoc(t)
	assert.Equal(t, "/", doc.BasePath)

	files, err := filepath.Glob("../internal/delivery/http/controllers/*.go")
	require.NoError(t, err)

	annotated := 0
	for _, f := range files {
		if strings.HasSuffix(f, "_test.go") {
			continue
		}
		src, err := os.ReadFile(f)
		require.NoError(t, err)
		for _, m := range routerAnnotation.FindAllStringSubmatch(string(src), -1) {
			annotated++
			path, method := m[1], m[2]
			_, ok := doc.Paths[path][method]
			assert.True(t, ok, "%s %s (%s) missing from the document", strings.ToUpper(method), path, filepath.Base(f))
		}
	}
	require.NotZero(t, annotated)

	documented := 0
	for _, ops := range doc.Paths {
		documented += len(ops)
	}
	assert.Equal(t, annotated, documented, "document lists operations that no handler annotates")
}

func TestDoc_ReferencesResolve(t *testing.T) {
	doc := readDoc(t)
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	refs := regexp.MustCompile(`"#/definitions/([^"]+)"`).FindAllStringSubmatch(raw, -1)
	require.NotEmpty(t, refs)
	for _, m := range refs {
		_, ok := doc.Definitions[m[1]]
		assert.True(t, ok, "definition %s is referenced but not declared", m[1])
	}
}
