package main

import (
	"context"
	"errors"

	"github.com/goliatone/go-webdialog/internal/config"
	"github.com/goliatone/go-webdialog/internal/prompt"
	"github.com/goliatone/go-webdialog/pkg/dialog"
	"github.com/goliatone/go-webdialog/pkg/render/contract"
)

// Exit codes following standard conventions
const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitUsage       = 2
	ExitConfig      = 3
	ExitContract    = 4
	ExitInterrupted = 8
	ExitInternal    = 9
)

func exitCode(err error) int {
	var validation config.ValidationError
	var violation *contract.ViolationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, prompt.ErrAborted), errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.As(err, &validation):
		return ExitConfig
	case errors.As(err, &violation):
		return ExitContract
	case errors.Is(err, dialog.ErrDialogNotFound):
		return ExitUsage
	default:
		return ExitError
	}
}
