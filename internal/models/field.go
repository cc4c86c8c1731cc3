package models

// Fields of study an applicant may choose.
const (
	FieldScience    = "science"
	FieldArts       = "arts"
	FieldCommercial = "commercial"
)

var fieldSubjects = map[string][]string{
	FieldScience:    {"English", "Mathematics", "Chemistry", "Physics", "Biology"},
	FieldArts:       {"English", "Mathematics", "Government", "Literature", "Yoruba"},
	FieldCommercial: {"English", "Mathematics", "Commerce", "Accounting", "Economics"},
}

// ValidField reports whether the field of study is one of the supported tracks.
func ValidField(field string) bool {
	_, ok := fieldSubjects[field]
	return ok
}

// SubjectsFor returns the fixed subject list an applicant must grade for the
// given field of study. The returned slice must not be mutated.
func SubjectsFor(field string) []string {
	return fieldSubjects[field]
}
