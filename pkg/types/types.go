package types

import (
	"fmt"
	"path"
)

// Gender is the code stored in annotation sidecars
type Gender string

const (
	GenderFemale Gender = "f"
	GenderMale   Gender = "m"
)

// Ethnicity is the code stored in annotation sidecars
type Ethnicity string

const (
	EthnicityWhite         Ethnicity = "1"
	EthnicityAsian         Ethnicity = "2"
	EthnicitySouthAsian    Ethnicity = "3"
	EthnicityBlack         Ethnicity = "4"
	EthnicityMiddleEastern Ethnicity = "5"
	EthnicitySouthAmerican Ethnicity = "6"
	EthnicityOther         Ethnicity = "99"
)

type option[T ~string] struct {
	label string
	code  T
}

// Selector order matters: the first entry is the default.
var genderOptions = []option[Gender]{
	{"female", GenderFemale},
	{"male", GenderMale},
}

var ethnicityOptions = []option[Ethnicity]{
	{"white", EthnicityWhite},
	{"asian", EthnicityAsian},
	{"south asian", EthnicitySouthAsian},
	{"black", EthnicityBlack},
	{"middle eastern", EthnicityMiddleEastern},
	{"south american", EthnicitySouthAmerican},
	{"other", EthnicityOther},
}

// GenderLabels returns the selector labels in display order
func GenderLabels() []string { return labels(genderOptions) }

// EthnicityLabels returns the selector labels in display order
func EthnicityLabels() []string { return labels(ethnicityOptions) }

// DefaultGender is the first gender selector entry
func DefaultGender() Gender { return genderOptions[0].code }

// DefaultEthnicity is the first ethnicity selector entry
func DefaultEthnicity() Ethnicity { return ethnicityOptions[0].code }

// GenderFromLabel maps a selector label to its code
func GenderFromLabel(label string) (Gender, bool) { return fromLabel(genderOptions, label) }

// EthnicityFromLabel maps a selector label to its code
func EthnicityFromLabel(label string) (Ethnicity, bool) { return fromLabel(ethnicityOptions, label) }

// Label returns the selector label for the code, or the raw code when unknown
func (g Gender) Label() string { return toLabel(genderOptions, g) }

// Label returns the selector label for the code, or the raw code when unknown
func (e Ethnicity) Label() string { return toLabel(ethnicityOptions, e) }

func labels[T ~string](opts []option[T]) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.label
	}
	return out
}

func fromLabel[T ~string](opts []option[T], label string) (T, bool) {
	for _, o := range opts {
		if o.label == label {
			return o.code, true
		}
	}
	var zero T
	return zero, false
}

func toLabel[T ~string](opts []option[T], code T) string {
	for _, o := range opts {
		if o.code == code {
			return o.label
		}
	}
	return string(code)
}

// Subject groups the images and annotations saved under one name
type Subject struct {
	Name      string    `json:"name"`
	Dir       string    `json:"dir"`
	Gender    Gender    `json:"gender"`
	Ethnicity Ethnicity `json:"ethnicity"`
	MaxSeq    int       `json:"max_seq"`
}

// NewSubject returns the default record for a name that was never saved
func NewSubject(name string) Subject {
	return Subject{
		Name:      name,
		Gender:    DefaultGender(),
		Ethnicity: DefaultEthnicity(),
	}
}

// ImagePath returns the data-relative path of image seq, e.g. "003/02.png"
func (s Subject) ImagePath(seq int, ext string) string {
	return path.Join(s.Dir, fmt.Sprintf("%02d.%s", seq, ext))
}

// Annotation is the content of a subject's annotations.json sidecar
type Annotation struct {
	Gender    Gender    `json:"gender"`
	Ethnicity Ethnicity `json:"ethnicity"`
}

// Annotation returns the sidecar content for the subject
func (s Subject) Annotation() Annotation {
	return Annotation{Gender: s.Gender, Ethnicity: s.Ethnicity}
}

// IndexRecord is one line of the bucket index file
type IndexRecord struct {
	Path string
	Name string
	URL  string
}

// Box represents a normalized bounding box with coordinates in [0,1] range
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Region is a labelled box returned by a vision model
type Region struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
}

// Detection is the parsed answer of a region suggestion query
type Detection struct {
	Subject     Region `json:"subject"`
	Description string `json:"description"`
}

// Found reports whether the model located a subject
func (d Detection) Found() bool {
	return d.Subject.Label != "none" && d.Subject.Box.W > 0 && d.Subject.Box.H > 0
}
