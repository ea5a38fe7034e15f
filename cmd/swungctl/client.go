package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/swunglabs/swung/internal/auth"
)

func apiClient() *resty.Client {
	return resty.New().
		SetBaseURL(apiFlag).
		SetHeader(auth.UserIDHeader, strconv.FormatInt(userFlag, 10))
}

// doJSON performs the request and streams the raw JSON response to out.
func doJSON(out io.Writer, method, path string, body interface{}) error {
	req := apiClient().R()
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	_, err = fmt.Fprintln(out, resp.String())
	return err
}
