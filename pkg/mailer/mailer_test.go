package mailer

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendBuildsMessage(t *testing.T) {
	m, err := New(Config{Host: "smtp.example.com", Port: "2525", User: "u", Pass: "p", From: "noreply@truefit.app"})
	require.NoError(t, err)

	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		assert.NotNil(t, a)
		assert.Equal(t, "noreply@truefit.app", from)
		return nil
	}

	require.NoError(t, m.Send("a@x.com", "Welcome", "<p>hi</p>"))
	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	assert.Equal(t, []string{"a@x.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Content-Type: text/html")
	assert.Contains(t, string(gotMsg), "Subject: Welcome")
}

func TestSendValidation(t *testing.T) {
	_, err := New(Config{Port: "2525", From: "x@y.z"})
	require.Error(t, err)

	m, err := New(Config{Host: "h", Port: "1", From: "x@y.z"})
	require.NoError(t, err)
	m.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }

	assert.Error(t, m.Send("", "s", "b"))
	assert.Error(t, m.Send("a@x.com", "", "b"))
	assert.ErrorContains(t, m.Send("a@x.com", "s", "b"), "refused")
}

func TestBuildMessagePlainText(t *testing.T) {
	msg := string(buildMessage("from@x.com", "to@x.com", "s", "hello"))
	assert.Contains(t, msg, "Content-Type: text/plain")
}
