package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

func doRequest(method, apiURL, token, path string, payload any, out io.Writer) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, apiURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	_, err = io.Copy(out, resp.Body)
	return err
}

func runGet(apiURL, token, path string, out io.Writer) error {
	return doRequest(http.MethodGet, apiURL, token, path, nil, out)
}

func runPost(apiURL, token, path string, payload any, out io.Writer) error {
	return doRequest(http.MethodPost, apiURL, token, path, payload, out)
}

func runLogin(apiURL, role, id, password string, out io.Writer) error {
	if id == "" || password == "" {
		return fmt.Errorf("id and password cannot be empty")
	}
	return runPost(apiURL, "", "/api/auth/login", map[string]string{
		"role": role, "id": id, "password": password,
	}, out)
}

func runSubmit(apiURL, token, text, subject, kind, orderID string, out io.Writer) error {
	if text == "" || subject == "" {
		return fmt.Errorf("text and subject cannot be empty")
	}
	payload := map[string]string{
		"text": text, "subject": subject, "type": kind,
	}
	if orderID != "" {
		payload["orderId"] = orderID
	}
	return runPost(apiURL, token, "/api/complaints", payload, out)
}
