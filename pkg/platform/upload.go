package platform

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/kuberlab/mldeploy/pkg/errors"
)

type multipartBody struct {
	buf         *bytes.Buffer
	contentType string
}

func newFileBody(field, path string) (*multipartBody, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Smart(err)
	}
	defer f.Close()

	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err = io.Copy(part, f); err != nil {
		return nil, errors.Smart(err)
	}
	if err = w.Close(); err != nil {
		return nil, err
	}
	return &multipartBody{buf: buf, contentType: w.FormDataContentType()}, nil
}

// UploadFile stores one file in the blob storage of a repository under
// folderPath of the batch and returns its remote location.
func (c *Client) UploadFile(localPath, folderPath, workspaceID, repositoryID, batchID string) (string, error) {
	if err := c.CheckAuth(AuthBasic); err != nil {
		return "", err
	}
	u := withQuery(
		fmt.Sprintf("/workspaces/%v/repositories/%v/upload", workspaceID, repositoryID),
		url.Values{"commitSha": {batchID}, "folderPath": {filepath.ToSlash(folderPath)}},
	)
	body, err := newFileBody("file", localPath)
	if err != nil {
		return "", err
	}

	var resp = &struct {
		Data struct {
			ReferencePath string `json:"referencePath"`
		} `json:"data"`
	}{}
	if err = c.do(http.MethodPost, u, AuthBasic, body, resp); err != nil {
		return "", err
	}
	if resp.Data.ReferencePath == "" {
		return "", errors.Smart(
			http.StatusBadGateway,
			errors.RemoteRequestFailed,
			fmt.Sprintf("Upload of %v returned no reference path", localPath),
		)
	}
	return resp.Data.ReferencePath, nil
}
