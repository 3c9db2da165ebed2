package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestRedactHookMasksCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.AddHook(RedactHook{})

	logger.WithFields(logrus.Fields{
		"refresh_token": "abc",
		"Password":      "hunter2",
		"user_id":       "u-1",
	}).Info("login")

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if out["refresh_token"] != "[REDACTED]" || out["Password"] != "[REDACTED]" {
		t.Fatalf("credentials leaked: %v", out)
	}
	if out["user_id"] != "u-1" {
		t.Fatalf("user_id = %v", out["user_id"])
	}
}

func TestLogErrorAddsErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	LogError(logger, "boom", errors.New("kaput"), nil)

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if out["error"] != "kaput" || out["msg"] != "boom" {
		t.Fatalf("log line = %v", out)
	}
}
