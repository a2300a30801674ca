// Package oracle checks the graphson encoder and decoder against documents produced by other GraphSON
// implementations. A Fixture holds the text written by such an external encoder for a known value: decoding the text
// must yield that value, and for canonical fixtures, encoding the value must reproduce the text up to whitespace.
package oracle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"
	"github.com/ghodss/yaml"
	"github.com/tidwall/jsonc"

	"github.com/eluv-io/graphson-go/format/graphson"
	"github.com/eluv-io/graphson-go/util/ifutil"
	"github.com/eluv-io/graphson-go/util/jsonutil"
)

var log = elog.Get("/eluvio/graphson/oracle")

// Fixture is a document produced by an external GraphSON encoder.
type Fixture struct {
	Name      string          `json:"name"`
	Profile   string          `json:"profile"`   // profile name, e.g. "v2"
	Text      string          `json:"text"`      // the document as written by the external encoder
	Document  json.RawMessage `json:"document"`  // alternative to Text for documents embedded in the fixture file
	Canonical bool            `json:"canonical"` // whether encoding the expected value must reproduce Text
	Comment   string          `json:"comment"`
}

type fixtureFile struct {
	Fixtures []*Fixture `json:"fixtures"`
}

// LoadFixtures reads the fixtures of the given file. See ParseFixtures for the supported formats.
func LoadFixtures(path string) ([]*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.E("LoadFixtures", errors.K.IO, err, "path", path)
	}
	fixtures, err := ParseFixtures(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.E("LoadFixtures", err, "path", path)
	}
	log.Debug("fixtures loaded", "path", path, "count", len(fixtures))
	return fixtures, nil
}

// ParseFixtures parses a fixture file with the given extension: ".yaml", ".yml", ".json" or ".jsonc" (JSON with
// comments and trailing commas). The file contains a single object with the list of fixtures:
//
//	fixtures:
//	  - name: int32
//	    profile: v2
//	    text: '{"@type": "g:Int32", "@value": 1}'
//	    canonical: true
func ParseFixtures(data []byte, ext string) ([]*Fixture, error) {
	e := errors.Template("ParseFixtures", errors.K.Invalid, "ext", ext)

	var file fixtureFile
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	case ".json", ".jsonc":
		err = json.Unmarshal(jsonc.ToJSON(data), &file)
	default:
		return nil, e("reason", "unsupported fixture format")
	}
	if err != nil {
		return nil, e(err)
	}

	names := map[string]bool{}
	for idx, f := range file.Fixtures {
		switch {
		case f == nil:
			return nil, e("reason", "empty fixture", "index", idx)
		case f.Name == "":
			return nil, e("reason", "fixture name missing", "index", idx)
		case names[f.Name]:
			return nil, e("reason", "duplicate fixture name", "name", f.Name)
		case f.Text == "" && len(f.Document) == 0:
			return nil, e("reason", "fixture has neither text nor document", "name", f.Name)
		case f.Text != "" && len(f.Document) != 0:
			return nil, e("reason", "fixture has both text and document", "name", f.Name)
		}
		names[f.Name] = true
		if f.Text == "" {
			f.Text = string(f.Document)
		}
		if f.Profile == "" {
			f.Profile = graphson.V2.Name
		}
	}
	return file.Fixtures, nil
}

// ResolveProfile returns the profile named by the fixture, looked up in the given custom profiles first and the
// built-in profiles second.
func (f *Fixture) ResolveProfile(custom ...*graphson.Profile) (*graphson.Profile, error) {
	for _, p := range custom {
		if strings.EqualFold(p.Name, f.Profile) {
			return p, nil
		}
	}
	if p, ok := graphson.ProfileByName(f.Profile); ok {
		return p, nil
	}
	return nil, errors.E("Fixture.ResolveProfile", errors.K.NotExist, "fixture", f.Name, "profile", f.Profile)
}

// Check verifies the fixture against the expected value with the fixture's built-in profile. See CheckWithProfile.
func Check(reg *graphson.Registry, f *Fixture, expected interface{}) error {
	p, err := f.ResolveProfile()
	if err != nil {
		return err
	}
	return CheckWithProfile(reg, p, f, expected)
}

// CheckWithProfile decodes the fixture text and compares the result with the expected value using graphson.Equal.
// For canonical fixtures, it also encodes the expected value and compares the output with the normalized fixture text.
// Mismatches are reported as errors of kind Invalid with a unified diff in the "diff" field.
func CheckWithProfile(reg *graphson.Registry, p *graphson.Profile, f *Fixture, expected interface{}) error {
	e := errors.Template("oracle.Check", errors.K.Invalid, "fixture", f.Name, "profile", p.Name)

	decoded, err := reg.Decode([]byte(f.Text), p)
	if err != nil {
		return e(err, "reason", "decoding failed")
	}
	if !graphson.Equal(expected, decoded) {
		return e("reason", "decoded value differs",
			"diff", ifutil.Diff("expected", expected, "decoded", decoded))
	}

	if !f.Canonical {
		return nil
	}
	want, err := p.Normalize([]byte(f.Text))
	if err != nil {
		return e(err, "reason", "invalid fixture text")
	}
	got, err := reg.Encode(expected, p)
	if err != nil {
		return e(err, "reason", "encoding failed")
	}
	if string(want) != string(got) {
		return e("reason", "encoding differs",
			"diff", ifutil.TextDiff(
				"fixture", jsonutil.PrettyOrDump(string(want)),
				"encoded", jsonutil.PrettyOrDump(string(got))))
	}
	return nil
}
