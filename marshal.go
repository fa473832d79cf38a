package matdb

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// The canonical serialization is a self-describing JSON form whose keys
// mirror the model's field names. Property enumeration order is part of
// the contract, so the properties object is written and read by hand
// instead of going through Go's (sorted) map marshaling.

// MarshalJSON writes the canonical object form of a material.
func (m *Material) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeKey(&buf, "name")
	writeJSON(&buf, m.Name)
	if m.DisplayName != "" {
		buf.WriteByte(',')
		writeKey(&buf, "display_name")
		writeJSON(&buf, m.DisplayName)
	}
	buf.WriteByte(',')
	writeKey(&buf, "state")
	if m.State == Invalid {
		buf.WriteString("null")
	} else {
		writeJSON(&buf, m.State.String())
	}
	buf.WriteByte(',')
	writeKey(&buf, "particle_flags")
	flags := make([]string, len(m.Particles))
	for i, f := range m.Particles {
		flags[i] = f.String()
	}
	writeJSON(&buf, flags)
	if m.ChemicalFormula != "" {
		buf.WriteByte(',')
		writeKey(&buf, "chemical_formula")
		writeJSON(&buf, m.ChemicalFormula)
	}
	if len(m.SpeciesNames) > 0 {
		buf.WriteByte(',')
		writeKey(&buf, "species_names")
		writeJSON(&buf, m.SpeciesNames)
	}
	buf.WriteByte(',')
	writeKey(&buf, "properties")
	buf.WriteByte('{')
	first := true
	var walkErr error
	m.EachProperty(func(name string, recs []*PropertyRecord) {
		if walkErr != nil {
			return
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeKey(&buf, name)
		if err := writeJSONErr(&buf, recs); err != nil {
			walkErr = err
		}
	})
	if walkErr != nil {
		return nil, walkErr
	}
	buf.WriteByte('}')
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the canonical object form, restoring property order.
func (m *Material) UnmarshalJSON(data []byte) error {
	var aux struct {
		Name            string          `json:"name"`
		DisplayName     string          `json:"display_name"`
		State           *string         `json:"state"`
		ParticleFlags   []string        `json:"particle_flags"`
		ChemicalFormula string          `json:"chemical_formula"`
		SpeciesNames    []string        `json:"species_names"`
		Properties      json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.Name = aux.Name
	m.DisplayName = aux.DisplayName
	if aux.State == nil {
		m.State = Invalid
	} else {
		m.State = StateFromString(*aux.State)
	}
	m.Particles = nil
	for _, s := range aux.ParticleFlags {
		f, ok := particleFromString(s)
		if !ok {
			return fmt.Errorf("unknown particle flag %q", s)
		}
		m.Particles.Add(f)
	}
	m.ChemicalFormula = aux.ChemicalFormula
	m.SpeciesNames = aux.SpeciesNames
	m.props = linkedhashmap.New()
	if len(aux.Properties) == 0 || string(aux.Properties) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(aux.Properties))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("properties is not an object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("property key is not a string")
		}
		var recs []*PropertyRecord
		if err := dec.Decode(&recs); err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
		if len(recs) == 0 {
			continue // a present property never maps to an empty sequence
		}
		m.props.Put(key, recs)
	}
	return nil
}

func particleFromString(s string) (ParticleFlag, bool) {
	switch s {
	case "inertParticle":
		return InertParticle, true
	case "dropletParticle":
		return DropletParticle, true
	case "combustionParticle":
		return CombustingParticle, true
	}
	return 0, false
}

func writeKey(buf *bytes.Buffer, key string) {
	b, _ := json.Marshal(key)
	buf.Write(b)
	buf.WriteByte(':')
}

func writeJSON(buf *bytes.Buffer, v interface{}) {
	b, _ := json.Marshal(v)
	buf.Write(b)
}

func writeJSONErr(buf *bytes.Buffer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// --- Property records ------------------------------------------------------

type recordJSON struct {
	Name        string          `json:"name"`
	Unit        string          `json:"unit,omitempty"`
	Coefficient json.RawMessage `json:"coefficient"`
}

// MarshalJSON writes the record with its tagged coefficient payload.
func (rec *PropertyRecord) MarshalJSON() ([]byte, error) {
	cj, err := MarshalCoefficient(rec.Coeff)
	if err != nil {
		return nil, err
	}
	return json.Marshal(recordJSON{
		Name:        rec.Name,
		Unit:        rec.Unit,
		Coefficient: cj,
	})
}

// UnmarshalJSON reads a record and its tagged coefficient payload.
func (rec *PropertyRecord) UnmarshalJSON(data []byte) error {
	var aux recordJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c, err := UnmarshalCoefficient(aux.Coefficient)
	if err != nil {
		return fmt.Errorf("record %q: %w", aux.Name, err)
	}
	rec.Name = aux.Name
	rec.Unit = aux.Unit
	rec.Coeff = c
	return nil
}

// --- Coefficient payloads --------------------------------------------------

// MarshalJSON writes a breakpoint as a [T, v] pair.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.T, p.V})
}

// UnmarshalJSON reads a breakpoint from a [T, v] pair.
func (p *Point) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	p.T, p.V = pair[0], pair[1]
	return nil
}

// MarshalJSON writes a range as a [Tlow, Thigh] pair.
func (r TempRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{r.Low, r.High})
}

// UnmarshalJSON reads a range from a [Tlow, Thigh] pair.
func (r *TempRange) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	r.Low, r.High = pair[0], pair[1]
	return nil
}

type coeffHead struct {
	Kind string `json:"kind"`
}

// MarshalCoefficient serializes a coefficient with its kind discriminator.
func MarshalCoefficient(c Coefficient) (json.RawMessage, error) {
	if c == nil {
		c = None{}
	}
	kind := c.Type().String()
	switch v := c.(type) {
	case None:
		return json.Marshal(struct {
			Kind string `json:"kind"`
		}{kind})
	case Constant:
		return json.Marshal(struct {
			Kind  string  `json:"kind"`
			Value float64 `json:"value"`
		}{kind, float64(v)})
	case StringRef:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			Ref  string `json:"ref"`
		}{kind, string(v)})
	case Boolean:
		return json.Marshal(struct {
			Kind  string `json:"kind"`
			Value bool   `json:"value"`
		}{kind, bool(v)})
	case Polynomial:
		return json.Marshal(struct {
			Kind   string    `json:"kind"`
			Coeffs []float64 `json:"coefficients"`
		}{kind, v.Coeffs})
	case PiecewiseLinear:
		return json.Marshal(struct {
			Kind   string  `json:"kind"`
			Points []Point `json:"points"`
		}{kind, v.Points})
	case PiecewisePolynomial:
		return json.Marshal(struct {
			Kind   string      `json:"kind"`
			Ranges []TempRange `json:"ranges"`
			Coeffs [][]float64 `json:"coefficients"`
		}{kind, v.Ranges, v.Coeffs})
	case NASA9Piecewise:
		return json.Marshal(struct {
			Kind   string       `json:"kind"`
			Ranges []TempRange  `json:"ranges"`
			Coeffs [][9]float64 `json:"coefficients"`
		}{kind, v.Ranges, v.Coeffs})
	case CompressibleLiquid:
		return json.Marshal(struct {
			Kind   string    `json:"kind"`
			Coeffs []float64 `json:"coefficients"`
		}{kind, v.Coeffs})
	case Sutherland:
		return json.Marshal(struct {
			Kind   string     `json:"kind"`
			Coeffs [3]float64 `json:"coefficients"`
		}{kind, [3]float64(v)})
	case PowerLaw:
		return json.Marshal(struct {
			Kind   string    `json:"kind"`
			Coeffs []float64 `json:"coefficients"`
		}{kind, v.Coeffs})
	case Blottner:
		return json.Marshal(struct {
			Kind   string     `json:"kind"`
			Coeffs [3]float64 `json:"coefficients"`
		}{kind, [3]float64(v)})
	case FilmAveraged:
		return json.Marshal(struct {
			Kind      string          `json:"kind"`
			Averaging float64         `json:"averaging_coefficient"`
			Film      *PropertyRecord `json:"film_diffusivity"`
		}{kind, v.Averaging, v.Film})
	case Reactions:
		return json.Marshal(struct {
			Kind      string     `json:"kind"`
			Mechanism string     `json:"mechanism,omitempty"`
			Entries   []Reaction `json:"reactions"`
		}{kind, v.Mechanism, v.Entries})
	case Opaque:
		return json.Marshal(struct {
			Kind   string `json:"kind"`
			Source string `json:"source"`
		}{kind, v.Source})
	}
	return nil, fmt.Errorf("cannot serialize coefficient of type %T", c)
}

// UnmarshalCoefficient deserializes a tagged coefficient payload.
func UnmarshalCoefficient(data json.RawMessage) (Coefficient, error) {
	var head coeffHead
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	t, ok := CoeffTypeFromString(head.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown coefficient kind %q", head.Kind)
	}
	switch t {
	case NoneType:
		return None{}, nil
	case ConstantType:
		var aux struct {
			Value float64 `json:"value"`
		}
		if err := json.Unmarshal(data, &aux); err != nil {
			return nil, err
		}
		return Constant(aux.Value), nil
	case StringRefType:
		var aux struct {
			Ref string `json:"ref"`
		}
		if err := json.Unmarshal(data, &aux); err != nil {
			return nil, err
		}
		return StringRef(aux.Ref), nil
	case BooleanType:
		var aux struct {
			Value bool `json:"value"`
		}
		if err := json.Unmarshal(data, &aux); err != nil {
			return nil, err
		}
		return Boolean(aux.Value), nil
	case PolynomialType:
		var aux struct {
			Coeffs []float64 `json:"coefficients"`
		}
		if err := json.Unmarshal(data, &aux); err != nil {
			return nil, err
		}
		return Polynomial{Coeffs: aux.Coeffs}, nil
	case PiecewiseLinearType:
		var aux struct {
			Points []Point `json:"points"`
		}
		if err := json.Unmarshal(data, &aux); err != nil {
			return nil, err
		}
		return PiecewiseLinear{Points: aux.Points}, nil
	case PiecewisePolynomialType:
		var aux struct {
			Ranges []TempRange `json:"ranges"`
			Coeffs [][]float64 `json:"coefficients"`
		}
		if err := json.Unmarshal(data, &aux); err != nil {
			return nil, err
		}
		return PiecewisePolynomial{Ranges: aux.Ranges, Coeffs: aux.Coeffs}, nil
	case NASA9Type:
		var aux struct {
			Ranges []TempRange  `json:"ranges"`
			Coeffs [][9]float64 `json:"coefficients"`
		}
		if err := json.Unmarshal(data, &aux); err != nil {
			return nil, err
		}
		return NASA9Piecewise{Ranges: aux.Ranges, Coeffs: aux.Coeffs}, nil
	case CompressibleLiquidType:
		var aux struct {
			Coeffs []float64 `json:"coefficients"`
		}
		if err := json.Unmarshal(data, &aux); err != nil {
			return nil, err
		}
		return CompressibleLiquid{Coeffs: aux.Coeffs}, nil
	case SutherlandType:
		var aux struct {
			Coeffs [3]float64 `json:"coefficients"`
		}
		if err := json.Unmarshal(data, &aux); err != nil {
			return nil, err
		}
		return Sutherland(aux.Coeffs), nil
	case PowerLawType:
		var aux struct {
			Coeffs []float64 `json:"coefficients"`
		}
		if err := json.Unmarshal(data, &aux); err != nil {
			return nil, err
		}
		return PowerLaw{Coeffs: aux.Coeffs}, nil
	case BlottnerType:
		var aux struct {
			Coeffs [3]float64 `json:"coefficients"`
		}
		if err := json.Unmarshal(data, &aux); err != nil {
			return nil, err
		}
		return Blottner(aux.Coeffs), nil
	case FilmAveragedType:
		var aux struct {
			Averaging float64         `json:"averaging_coefficient"`
			Film      *PropertyRecord `json:"film_diffusivity"`
		}
		if err := json.Unmarshal(data, &aux); err != nil {
			return nil, err
		}
		return FilmAveraged{Averaging: aux.Averaging, Film: aux.Film}, nil
	case ReactionsType:
		var aux struct {
			Mechanism string     `json:"mechanism"`
			Entries   []Reaction `json:"reactions"`
		}
		if err := json.Unmarshal(data, &aux); err != nil {
			return nil, err
		}
		return Reactions{Mechanism: aux.Mechanism, Entries: aux.Entries}, nil
	case OpaqueType:
		var aux struct {
			Source string `json:"source"`
		}
		if err := json.Unmarshal(data, &aux); err != nil {
			return nil, err
		}
		return Opaque{Source: aux.Source}, nil
	}
	return nil, fmt.Errorf("unknown coefficient kind %q", head.Kind)
}
