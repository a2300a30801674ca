package graphson

import (
	"github.com/eluv-io/errors-go"
	"github.com/ghodss/yaml"
	"github.com/mitchellh/mapstructure"
)

// LoadProfiles parses profile definitions from YAML (or JSON) text:
//
//	profiles:
//	  - base: v2            # built-in profile to start from, defaults to v2
//	    name: v2-untyped
//	    bareTypes: [Int32, Int64, Double, List]
//	    bareIntegers: auto
//
// Every entry overlays the given fields on a copy of its base profile. Unknown fields are rejected.
func LoadProfiles(data []byte) ([]*Profile, error) {
	e := errors.Template("LoadProfiles", errors.K.Invalid)

	var cfg struct {
		Profiles []map[string]interface{} `json:"profiles"`
	}
	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, e(err)
	}

	res := make([]*Profile, 0, len(cfg.Profiles))
	for idx, entry := range cfg.Profiles {
		p, err := overlayProfile(entry)
		if err != nil {
			return nil, e(err, "index", idx)
		}
		res = append(res, p)
	}
	return res, nil
}

func overlayProfile(entry map[string]interface{}) (*Profile, error) {
	e := errors.Template("overlayProfile", errors.K.Invalid)

	baseName := V2.Name
	if b, ok := entry["base"]; ok {
		s, isString := b.(string)
		if !isString {
			return nil, e("reason", "base must be a string", "base", b)
		}
		baseName = s
	}
	base, ok := ProfileByName(baseName)
	if !ok {
		return nil, e("reason", "unknown base profile", "base", baseName)
	}

	fields := make(map[string]interface{}, len(entry))
	for k, v := range entry {
		if k != "base" {
			fields[k] = v
		}
	}

	p := base.Clone()
	if _, ok = fields["bareTypes"]; ok {
		// replace rather than merge with the base list
		p.BareTypes = nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      p,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, e(err)
	}
	err = decoder.Decode(fields)
	if err != nil {
		return nil, e(err)
	}
	if p.Name == base.Name {
		return nil, e("reason", "profile name missing or clashes with its base", "name", p.Name)
	}
	err = p.Validate()
	if err != nil {
		return nil, e(err)
	}
	return p, nil
}
