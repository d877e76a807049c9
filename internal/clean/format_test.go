package clean

import (
	"strings"
	"testing"

	"datascrub/domain/cleaning"
)

// TestStandardizePhoneFormats verifies ten-digit values reformat, short
// values pass through, and already-conforming values are not counted.
func TestStandardizePhoneFormats(t *testing.T) {
	input := "phone\n1234567890\n123-456-7890\n12345\n(123) 456-7890\n"

	tests := []struct {
		op          cleaning.OpName
		wantChanges int
		wantText    string
	}{
		{
			op:          cleaning.OpStandardizePhoneUS,
			wantChanges: 2,
			wantText:    "phone\n(123) 456-7890\n(123) 456-7890\n12345\n(123) 456-7890",
		},
		{
			op:          cleaning.OpStandardizePhoneDash,
			wantChanges: 2,
			wantText:    "phone\n123-456-7890\n123-456-7890\n12345\n123-456-7890",
		},
		{
			op:          cleaning.OpStandardizePhoneDots,
			wantChanges: 3,
			wantText:    "phone\n123.456.7890\n123.456.7890\n12345\n123.456.7890",
		},
	}

	for _, test := range tests {
		t.Run(string(test.op), func(t *testing.T) {
			res := mustApply(t, input, test.op, nil)
			if res.Changes != test.wantChanges {
				t.Errorf("Changes = %d, want %d", res.Changes, test.wantChanges)
			}
			if res.CSVText != test.wantText {
				t.Errorf("CSVText = %q, want %q", res.CSVText, test.wantText)
			}
		})
	}
}

// TestPhoneDefaultTargets verifies only phone-typed columns are touched
// when no targets are given.
func TestPhoneDefaultTargets(t *testing.T) {
	res := mustApply(t, "contact_mobile,code\n1234567890,1234567890\n", cleaning.OpStandardizePhoneUS, nil)
	if res.Changes != 1 {
		t.Errorf("Changes = %d, want 1", res.Changes)
	}
	if res.CSVText != "contact_mobile,code\n(123) 456-7890,1234567890" {
		t.Errorf("CSVText = %q", res.CSVText)
	}
}

// TestValidateEmails verifies the invalid prefix and its idempotence
func TestValidateEmails(t *testing.T) {
	res := mustApply(t, "email\nnot-an-email\na@b.com\n", cleaning.OpValidateEmails, nil)
	if res.Changes != 1 {
		t.Errorf("Changes = %d, want 1", res.Changes)
	}
	if res.CSVText != "email\n[INVALID] not-an-email\na@b.com" {
		t.Errorf("CSVText = %q", res.CSVText)
	}

	again := mustApply(t, res.CSVText, cleaning.OpValidateEmails, nil)
	if again.Changes != 0 {
		t.Errorf("second pass Changes = %d, want 0", again.Changes)
	}
	if again.CSVText != res.CSVText {
		t.Errorf("second pass rewrote text: %q", again.CSVText)
	}
}

// TestValidateEmailsSkipsEmpty verifies empty cells are not prefixed
func TestValidateEmailsSkipsEmpty(t *testing.T) {
	res := mustApply(t, "email,x\n,1\n", cleaning.OpValidateEmails, nil)
	if res.Changes != 0 {
		t.Errorf("Changes = %d, want 0", res.Changes)
	}
	if strings.Contains(res.CSVText, "[INVALID]") {
		t.Errorf("empty cell was prefixed: %q", res.CSVText)
	}
}

// TestLowerEmailCase verifies only values containing @ are lowered
func TestLowerEmailCase(t *testing.T) {
	res := mustApply(t, "email,name\nJOHN@X.COM,BOB\n", cleaning.OpStandardizeEmailCase, nil)
	if res.Changes != 1 {
		t.Errorf("Changes = %d, want 1", res.Changes)
	}
	if res.CSVText != "email,name\njohn@x.com,BOB" {
		t.Errorf("CSVText = %q", res.CSVText)
	}

	res = mustApply(t, "email,name\nJOHN@X.COM,BOB\n", cleaning.OpStandardizeEmailCase, []string{"name"})
	if res.Changes != 0 {
		t.Errorf("non-email value was changed: %q", res.CSVText)
	}
}

// TestStandardizeDates verifies layout detection and both output formats
func TestStandardizeDates(t *testing.T) {
	input := "created\n2023-01-05\n01/15/2023\n\"Jan 2, 2023\"\ngarbage\n"

	res := mustApply(t, input, cleaning.OpStandardizeDatesISO, nil)
	if res.Changes != 2 {
		t.Errorf("iso Changes = %d, want 2", res.Changes)
	}
	if res.CSVText != "created\n2023-01-05\n2023-01-15\n2023-01-02\ngarbage" {
		t.Errorf("iso CSVText = %q", res.CSVText)
	}

	res = mustApply(t, input, cleaning.OpStandardizeDatesUS, nil)
	if res.Changes != 2 {
		t.Errorf("us Changes = %d, want 2", res.Changes)
	}
	if res.CSVText != "created\n01/05/2023\n01/15/2023\n01/02/2023\ngarbage" {
		t.Errorf("us CSVText = %q", res.CSVText)
	}
}

// TestDatesIgnoreUnclassifiedColumns verifies the default scope is limited
// to date-typed columns.
func TestDatesIgnoreUnclassifiedColumns(t *testing.T) {
	res := mustApply(t, "notes\n01/15/2023\n", cleaning.OpStandardizeDatesISO, nil)
	if res.Changes != 0 {
		t.Errorf("Changes = %d, want 0", res.Changes)
	}
}
