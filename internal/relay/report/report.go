// Package report is the relay's single failure sink: it renders a message
// into the page's error element.
package report

import (
	"context"
	"log/slog"

	dErrors "iirelay/pkg/domain-errors"
)

// ErrorElementID is the id of the element that displays errors.
const ErrorElementID = "error"

// Label is the fixed prefix of every rendered failure.
const Label = "Internet Identity"

// Element is a text element whose content and visibility can be set.
type Element interface {
	SetText(text string)
	SetVisible(visible bool)
}

// Display locates page elements by id.
type Display interface {
	// Element returns the element with id, or false when the page has none.
	Element(id string) (Element, bool)
}

// Reporter renders messages into the error element. Reporting never fails:
// without an element the message only reaches the log.
type Reporter struct {
	display Display
	logger  *slog.Logger
}

func New(display Display, logger *slog.Logger) *Reporter {
	return &Reporter{display: display, logger: logger}
}

// Report shows message, or hides the element when message is empty.
func (r *Reporter) Report(message string) {
	el, ok := r.display.Element(ErrorElementID)
	if !ok {
		r.logger.Error("error element not found", "message", message)
		return
	}
	el.SetText(message)
	el.SetVisible(message != "")
}

// Clear hides any previously rendered error.
func (r *Reporter) Clear() {
	r.Report("")
}

// Fail renders err under the label of its code and logs it.
func (r *Reporter) Fail(ctx context.Context, err error) {
	code := dErrors.CodeOf(err)
	r.logger.WarnContext(ctx, "relay attempt failed",
		"code", string(code),
		"error", err,
	)
	r.Report(Format(StageLabel(code), err))
}

// Format renders a failure the way the page shows it.
func Format(stage string, err error) string {
	detail := "Unknown error"
	if err != nil {
		detail = err.Error()
	}
	return Label + " " + stage + ": " + detail
}

var stageLabels = map[dErrors.Code]string{
	dErrors.CodeMissingParameter:           "initialization failed",
	dErrors.CodeInvalidParameter:           "initialization failed",
	dErrors.CodeKeyParseFailure:            "initialization failed",
	dErrors.CodeInitializationFailure:      "initialization failed",
	dErrors.CodeLoginProcessFailure:        "login process failed",
	dErrors.CodeAuthenticationRejected:     "authentication rejected",
	dErrors.CodeDelegationRetrievalFailure: "delegation retrieval failed",
	dErrors.CodeUnknownEmbeddingContext:    "delegation retrieval failed",
}

// StageLabel names the stage a failure code belongs to.
func StageLabel(code dErrors.Code) string {
	if label, ok := stageLabels[code]; ok {
		return label
	}
	return "failed"
}
