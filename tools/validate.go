package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/microcosm-cc/bluemonday"

	"github.com/KamdynS/go-miro-mcp/miro"
)

// Validator decodes tool arguments into typed parameter structs, checks them
// against their `validate` tags and sanitizes rich-text content.
//
// Besides the stock validator rules it understands sticky_color, shape_kind,
// item_type and hex_color.
type Validator struct {
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
	enums     map[string][]string
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("sticky_color", func(fl validator.FieldLevel) bool {
		return miro.IsStickyColor(fl.Field().String())
	})
	_ = v.RegisterValidation("shape_kind", func(fl validator.FieldLevel) bool {
		return miro.IsShapeKind(fl.Field().String())
	})
	_ = v.RegisterValidation("item_type", func(fl validator.FieldLevel) bool {
		return miro.KnownItemType(miro.ItemType(fl.Field().String()))
	})
	_ = v.RegisterValidation("hex_color", func(fl validator.FieldLevel) bool {
		_, err := colorful.Hex(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v, sanitizer: contentPolicy(), enums: map[string][]string{}}
}

// RegisterEnum adds a rule named tag that accepts only the given values.
// Enumerations too long for a oneof tag are registered this way.
func (v *Validator) RegisterEnum(tag string, values []string) error {
	set := make(map[string]bool, len(values))
	for _, val := range values {
		set[val] = true
	}
	if err := v.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return set[fl.Field().String()]
	}); err != nil {
		return err
	}
	v.enums[tag] = values
	return nil
}

// contentPolicy allows the rich-text subset the whiteboard renders.
func contentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "strong", "b", "em", "i", "u", "s", "span", "ol", "ul", "li")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoReferrerOnLinks(true)
	return p
}

// Decode copies args into target and validates it. Failures are reported as
// *miro.ValidationError naming the first offending field.
func (v *Validator) Decode(args Args, target interface{}) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return &miro.ValidationError{Reason: fmt.Sprintf("arguments are not serializable: %v", err)}
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return decodeError(err)
	}
	return v.Struct(target)
}

// Struct validates an already-populated parameter struct.
func (v *Validator) Struct(target interface{}) error {
	err := v.validate.Struct(target)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return v.fieldError(verrs[0])
	}
	return &miro.ValidationError{Reason: err.Error()}
}

// Sanitize strips markup outside the allowed rich-text subset. Content with
// no markup is returned unchanged; markup is re-encoded as HTML, so its text
// comes back entity-escaped.
func (v *Validator) Sanitize(content string) string {
	if !strings.Contains(content, "<") {
		return content
	}
	return v.sanitizer.Sanitize(content)
}

// NormalizeColor returns a hex color in #rrggbb form.
func NormalizeColor(s string) (string, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return "", &miro.ValidationError{Field: "color", Reason: fmt.Sprintf("%q is not a hex color", s)}
	}
	return c.Hex(), nil
}

func decodeError(err error) error {
	if te, ok := err.(*json.UnmarshalTypeError); ok {
		field := te.Field
		if field == "" {
			field = "arguments"
		}
		return &miro.ValidationError{Field: field, Reason: fmt.Sprintf("expected %s, got %s", te.Type, te.Value)}
	}
	return &miro.ValidationError{Reason: err.Error()}
}

func (v *Validator) fieldError(fe validator.FieldError) error {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}

	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "min", "gte":
		if fe.Kind() == reflect.Slice {
			reason = fmt.Sprintf("must contain at least %s entries", fe.Param())
		} else {
			reason = fmt.Sprintf("must be at least %s", fe.Param())
		}
	case "max", "lte":
		if fe.Kind() == reflect.Slice {
			reason = fmt.Sprintf("must contain at most %s entries", fe.Param())
		} else {
			reason = fmt.Sprintf("must be at most %s", fe.Param())
		}
	case "oneof":
		reason = fmt.Sprintf("must be one of [%s]", fe.Param())
	case "sticky_color":
		reason = fmt.Sprintf("%v is not a sticky note color (allowed: %s)", fe.Value(), strings.Join(miro.StickyNoteColors, ", "))
	case "shape_kind":
		reason = fmt.Sprintf("%v is not a supported shape", fe.Value())
	case "item_type":
		reason = fmt.Sprintf("%v is not a known item type", fe.Value())
	case "hex_color":
		reason = fmt.Sprintf("%v is not a hex color", fe.Value())
	default:
		if values, ok := v.enums[fe.Tag()]; ok {
			reason = fmt.Sprintf("%v is not one of [%s]", fe.Value(), strings.Join(values, " "))
		} else {
			reason = fmt.Sprintf("failed %s check", fe.Tag())
		}
	}
	return &miro.ValidationError{Field: field, Reason: reason}
}
