package axis

import (
	"fmt"

	"github.com/npillmayer/otslice/core"
)

// ValidationError is raised for an axis entry which cannot be turned into an
// instance value. It is always attributable to one axis and to the exact text
// the user entered.
type ValidationError struct {
	Code  int    // one of core.EINVALIDVALUE, core.EINVALIDRANGE, core.EDEFAULTRANGE, core.EUNKNOWNAXIS
	Tag   Tag    // axis the entry belongs to
	Text  string // offending text: the whole entry or a single token of it
	Issue string // human-readable description
}

func (e *ValidationError) Error() string {
	return e.Issue
}

func invalidValue(tag Tag, token string) error {
	return core.WrapError(&ValidationError{
		Code:  core.EINVALIDVALUE,
		Tag:   tag,
		Text:  token,
		Issue: fmt.Sprintf("axis %s: %q is not a valid number", tag, token),
	}, core.EINVALIDVALUE, "Invalid value %q for axis %s", token, tag)
}

func invalidRange(tag Tag, text string) error {
	return core.WrapError(&ValidationError{
		Code:  core.EINVALIDRANGE,
		Tag:   tag,
		Text:  text,
		Issue: fmt.Sprintf("axis %s: %q is not a valid range, expected START:END [DEFAULT]", tag, text),
	}, core.EINVALIDRANGE, "Invalid range %q for axis %s", text, tag)
}

func defaultNotInRange(tag Tag, text string, lo, hi, def float64) error {
	return core.WrapError(&ValidationError{
		Code: core.EDEFAULTRANGE,
		Tag:  tag,
		Text: text,
		Issue: fmt.Sprintf("axis %s: requested range %s:%s does not include the default value %s",
			tag, formatNumber(lo), formatNumber(hi), formatNumber(def)),
	}, core.EDEFAULTRANGE, "The %s axis range must include the default value %s", tag, formatNumber(def))
}

func unknownAxis(tag Tag, text string) error {
	return core.WrapError(&ValidationError{
		Code:  core.EUNKNOWNAXIS,
		Tag:   tag,
		Text:  text,
		Issue: fmt.Sprintf("font does not declare an axis %q", string(tag)),
	}, core.EUNKNOWNAXIS, "Unknown axis %q", string(tag))
}
