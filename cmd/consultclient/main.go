// Command consultclient uploads an audio recording to a running processor
// and prints the extracted record. With -sample it triggers the built-in
// demo consultation instead of uploading audio.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

func main() {
	addr := flag.String("addr", "http://localhost:8000", "processor base URL")
	file := flag.String("file", "", "audio file to upload")
	sample := flag.Bool("sample", false, "process the built-in demo consultation")
	timeout := flag.Duration("timeout", 10*time.Minute, "request timeout")
	flag.Parse()

	client := &http.Client{Timeout: *timeout}

	var resp *http.Response
	var err error
	switch {
	case *sample:
		resp, err = client.Post(*addr+"/v1/consultations/sample", "application/json", nil)
	case *file != "":
		resp, err = upload(client, *addr, *file)
	default:
		fmt.Fprintln(os.Stderr, "either -file or -sample is required")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read response: %v\n", err)
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		pretty.Write(body)
	}
	fmt.Println(pretty.String())

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "status %d\n", resp.StatusCode)
		os.Exit(1)
	}
}

func upload(client *http.Client, addr, path string) (*http.Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, addr+"/v1/consultations", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return client.Do(req)
}
