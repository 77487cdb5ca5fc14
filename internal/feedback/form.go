// Package feedback validates the parent/teacher feedback form.
package feedback

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Difficulty is how hard the reviewer found the modules.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Rating bounds.
const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 5
)

// Field names, as used in JSON and in validation errors.
const (
	FieldUserName       = "userName"
	FieldEmail          = "email"
	FieldRating         = "moduleRating"
	FieldText           = "feedback"
	FieldDifficulty     = "difficulty"
	FieldWouldRecommend = "wouldRecommend"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form is one feedback submission.
type Form struct {
	UserName       string     `json:"userName"`
	Email          string     `json:"email"`
	Rating         int        `json:"moduleRating"`
	Text           string     `json:"feedback"`
	Difficulty     Difficulty `json:"difficulty"`
	WouldRecommend bool       `json:"wouldRecommend"`
}

// NewForm returns an empty form with the default rating, difficulty and
// recommendation.
func NewForm() Form {
	return Form{Rating: DefaultRating, Difficulty: Medium, WouldRecommend: true}
}

// ValidationError maps field names to messages.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return "invalid feedback: " + strings.Join(parts, "; ")
}

// Normalize trims text fields, lowercases the email and fills an empty
// difficulty and zero rating with their defaults.
func (f Form) Normalize() Form {
	f.UserName = strings.TrimSpace(f.UserName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Text = strings.TrimSpace(f.Text)
	if f.Difficulty == "" {
		f.Difficulty = Medium
	}
	if f.Rating == 0 {
		f.Rating = DefaultRating
	}
	return f
}

// Validate checks the form as submitted. It returns a ValidationError listing
// every problem, or nil.
func (f Form) Validate() error {
	errs := ValidationError{}

	if strings.TrimSpace(f.UserName) == "" {
		errs[FieldUserName] = "Name is required"
	}

	email := strings.TrimSpace(f.Email)
	switch {
	case email == "":
		errs[FieldEmail] = "Email is required"
	case !emailPattern.MatchString(email):
		errs[FieldEmail] = "Please enter a valid email"
	}

	if strings.TrimSpace(f.Text) == "" {
		errs[FieldText] = "Please share your feedback"
	}

	if f.Rating < MinRating || f.Rating > MaxRating {
		errs[FieldRating] = fmt.Sprintf("Rating must be between %d and %d", MinRating, MaxRating)
	}

	switch f.Difficulty {
	case Easy, Medium, Hard:
	default:
		errs[FieldDifficulty] = "Difficulty must be easy, medium or hard"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Draft is a form being filled in. Editing a field clears its error; Submit
// validates and either records the errors or marks the draft submitted.
type Draft struct {
	Form      Form
	Errors    ValidationError
	Submitted bool
}

// NewDraft starts a draft from the default form.
func NewDraft() *Draft {
	return &Draft{Form: NewForm(), Errors: ValidationError{}}
}

// Set updates one field from its string input.
func (d *Draft) Set(field, value string) error {
	switch field {
	case FieldUserName:
		d.Form.UserName = value
	case FieldEmail:
		d.Form.Email = value
	case FieldText:
		d.Form.Text = value
	case FieldDifficulty:
		d.Form.Difficulty = Difficulty(value)
	case FieldRating:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("rating %q: %w", value, err)
		}
		d.Form.Rating = n
	case FieldWouldRecommend:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("wouldRecommend %q: %w", value, err)
		}
		d.Form.WouldRecommend = b
	default:
		return fmt.Errorf("unknown field %q", field)
	}

	delete(d.Errors, field)
	return nil
}

// Submit validates the draft. On success it returns the normalized form.
func (d *Draft) Submit() (Form, error) {
	if err := d.Form.Validate(); err != nil {
		d.Errors = err.(ValidationError)
		return Form{}, err
	}

	d.Errors = ValidationError{}
	d.Submitted = true
	return d.Form.Normalize(), nil
}

// Reset discards the draft and starts over with the default form.
func (d *Draft) Reset() {
	*d = *NewDraft()
}
