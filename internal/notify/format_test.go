package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jdhwiz/brickwatch/internal/registry"
	"github.com/jdhwiz/brickwatch/internal/report"
	"github.com/jdhwiz/brickwatch/internal/stock"
)

func TestAlertFormatting(t *testing.T) {
	o := report.Outcome{
		Target:    registry.Target{URL: "https://www.lego.com/en-us/product/titanic-10294", Position: 2},
		State:     stock.StateAvailable,
		Title:     "LEGO Titanic 10294",
		CheckedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}

	subject := AlertSubject(o)
	assert.Contains(t, subject, "AVAILABLE")
	assert.Contains(t, subject, "titanic-10294")

	body := AlertBody(o)
	assert.Contains(t, body, "URL: https://www.lego.com/en-us/product/titanic-10294")
	assert.Contains(t, body, "Status: AVAILABLE")
	assert.Contains(t, body, "Page title: LEGO Titanic 10294")
	assert.NotContains(t, body, "Error:")
}

func TestAlertBodyWithError(t *testing.T) {
	o := report.Outcome{
		Target:      registry.Target{URL: "https://x/a", Position: 1},
		State:       stock.StateError,
		ErrorDetail: "navigation timeout",
	}

	body := AlertBody(o)
	assert.Contains(t, body, "Status: ERROR")
	assert.Contains(t, body, "Error: navigation timeout")
}

func TestNewMailerRequiresRecipient(t *testing.T) {
	_, err := NewMailer(MailerOptions{Host: "localhost", Port: 25, From: "a@b"})
	assert.Error(t, err)
}
