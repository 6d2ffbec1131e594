package types

import "testing"

func TestFlagsForTypeSetsExactlyOneFlag(t *testing.T) {
	for _, questionType := range []string{
		QuestionTypeCheckbox,
		QuestionTypeDate,
		QuestionTypeFile,
		QuestionTypeLocation,
		QuestionTypeSelection,
		QuestionTypeText,
	} {
		flags, ok := FlagsForType(questionType)
		if !ok {
			t.Fatalf("%s: unexpectedly unknown", questionType)
		}
		set := 0
		for _, flag := range []bool{flags.HasCheckbox, flags.HasDate, flags.HasFile, flags.HasLocation, flags.HasSelection, flags.HasText} {
			if flag {
				set++
			}
		}
		if set != 1 {
			t.Fatalf("%s: want exactly one flag set, got %d", questionType, set)
		}
	}
}

func TestFlagsForTypeRejectsUnknown(t *testing.T) {
	if _, ok := FlagsForType("dropdown"); ok {
		t.Fatalf("want unknown type rejected")
	}
	if _, ok := FlagsForType(""); ok {
		t.Fatalf("want empty type rejected")
	}
}

func TestHasOptionsImpliedByCheckboxAndSelection(t *testing.T) {
	for questionType, want := range map[string]bool{
		QuestionTypeCheckbox:  true,
		QuestionTypeSelection: true,
		QuestionTypeText:      false,
		QuestionTypeDate:      false,
		QuestionTypeFile:      false,
		QuestionTypeLocation:  false,
	} {
		flags, _ := FlagsForType(questionType)
		if flags.HasOptions() != want {
			t.Fatalf("%s: HasOptions = %v, want %v", questionType, flags.HasOptions(), want)
		}
	}
}
