package types

// Question types. Each maps to exactly one of the has_* flags.
const (
	QuestionTypeCheckbox  = "checkbox"
	QuestionTypeDate      = "date"
	QuestionTypeFile      = "file"
	QuestionTypeLocation  = "location"
	QuestionTypeSelection = "selection"
	QuestionTypeText      = "text"
)

// QuestionFlags mirrors the per-type boolean columns shared by what, how and
// survey questions. Exactly one flag is true for a valid question.
type QuestionFlags struct {
	HasCheckbox  bool `gorm:"column:has_checkbox;not null;default:false" json:"has_checkbox"`
	HasSelection bool `gorm:"column:has_selection;not null;default:false" json:"has_selection"`
	HasText      bool `gorm:"column:has_text;not null;default:false" json:"has_text"`
	HasDate      bool `gorm:"column:has_date;not null;default:false" json:"has_date"`
	HasFile      bool `gorm:"column:has_file;not null;default:false" json:"has_file"`
	HasLocation  bool `gorm:"column:has_location;not null;default:false" json:"has_location"`
}

// FlagsForType derives the flag set for a question type. The bool reports
// whether the type is known; HasOptions is implied by checkbox/selection.
func FlagsForType(questionType string) (QuestionFlags, bool) {
	var f QuestionFlags
	switch questionType {
	case QuestionTypeCheckbox:
		f.HasCheckbox = true
	case QuestionTypeDate:
		f.HasDate = true
	case QuestionTypeFile:
		f.HasFile = true
	case QuestionTypeLocation:
		f.HasLocation = true
	case QuestionTypeSelection:
		f.HasSelection = true
	case QuestionTypeText:
		f.HasText = true
	default:
		return f, false
	}
	return f, true
}

// HasOptions reports whether the flag set implies stored options.
func (f QuestionFlags) HasOptions() bool {
	return f.HasCheckbox || f.HasSelection
}
