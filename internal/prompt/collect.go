package prompt

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/goliatone/go-webdialog/pkg/dialog"
)

// Params asks for every param absent from values and returns the merged set.
// values is not modified. An empty answer leaves the param unset so the
// dialog fallback applies.
func Params(ctx context.Context, driver Driver, params []dialog.Param, values url.Values) (url.Values, error) {
	out := url.Values{}
	for key, vals := range values {
		out[key] = slices.Clone(vals)
	}
	for _, param := range params {
		if out.Has(param.Name) {
			continue
		}
		answer, err := driver.Input(ctx, InputConfig{
			Message:   param.Name,
			Help:      param.Description,
			Validator: validatorFor(param),
		})
		if err != nil {
			return nil, fmt.Errorf("prompt %s: %w", param.Name, err)
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			out.Set(param.Name, answer)
		}
	}
	return out, nil
}

// Choose returns current when it is one of options, the only option when
// there is exactly one, and otherwise asks.
func Choose(ctx context.Context, driver Driver, message string, options []string, current string) (string, error) {
	current = strings.TrimSpace(current)
	if current != "" && slices.Contains(options, current) {
		return current, nil
	}
	switch len(options) {
	case 0:
		return "", fmt.Errorf("prompt %s: nothing to choose from", message)
	case 1:
		return options[0], nil
	}
	idx, err := driver.Select(ctx, SelectConfig{
		Message: message,
		Options: options,
	})
	if err != nil {
		return "", fmt.Errorf("prompt %s: %w", message, err)
	}
	if idx < 0 || idx >= len(options) {
		return "", fmt.Errorf("prompt %s: selection %d out of range", message, idx)
	}
	return options[idx], nil
}

func validatorFor(param dialog.Param) func(string) error {
	if param.Pattern == nil {
		return nil
	}
	return func(answer string) error {
		answer = strings.TrimSpace(answer)
		if answer == "" || param.Pattern.MatchString(answer) {
			return nil
		}
		return fmt.Errorf("%s must match %s", param.Name, param.Pattern)
	}
}
