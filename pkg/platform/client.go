package platform

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	apiVersionPath = "/v2"
	defaultTimeout = 10 * time.Minute
)

// AuthType is the kind of credential an operation accepts.
type AuthType int

const (
	// AuthBasic requires the access key pair.
	AuthBasic AuthType = iota
	// AuthToken requires a deployment token.
	AuthToken
	// AuthAll accepts either, the key pair is preferred.
	AuthAll
)

func (a AuthType) String() string {
	switch a {
	case AuthBasic:
		return "basic"
	case AuthToken:
		return "token"
	case AuthAll:
		return "all"
	}
	return "AuthType(" + strconv.Itoa(int(a)) + ")"
}

type Client struct {
	Client    *http.Client
	BaseURL   *url.URL
	UserAgent string

	auth *AuthOpts
}

type AuthOpts struct {
	AccessKey string
	SecretKey string
	Token     string
	Insecure  bool
	Timeout   time.Duration
}

func (a *AuthOpts) hasKeys() bool {
	return a != nil && a.AccessKey != "" && a.SecretKey != ""
}

func (a *AuthOpts) hasToken() bool {
	return a != nil && a.Token != ""
}

func NewClient(baseURL string, auth *AuthOpts) (*Client, error) {
	if auth == nil {
		auth = &AuthOpts{}
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Smart(http.StatusBadRequest, errors.InvalidOptions, fmt.Sprintf("Invalid platform URL %q", baseURL))
	}

	// Clone default transport
	var transport = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if base.Scheme == "https" && auth.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: auth.Insecure}
	}

	if !strings.HasSuffix(base.Path, apiVersionPath) {
		base.Path = strings.TrimSuffix(base.Path, "/") + apiVersionPath
	}
	timeout := auth.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseClient := &http.Client{Timeout: timeout, Transport: transport}
	return &Client{
		BaseURL:   base,
		Client:    baseClient,
		UserAgent: "go-mldeploy/1",
		auth:      auth,
	}, nil
}

// CheckAuth fails with MissingCredentials when the configured credentials
// can not be used for an operation of the given type.
func (c *Client) CheckAuth(authType AuthType) error {
	_, err := c.authHeader(authType)
	return err
}

func (c *Client) authHeader(authType AuthType) (string, error) {
	basicOK := authType == AuthBasic || authType == AuthAll
	tokenOK := authType == AuthToken || authType == AuthAll

	switch {
	case c.auth.hasKeys() && basicOK:
		credentials := c.auth.AccessKey + ":" + c.auth.SecretKey
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials)), nil
	case c.auth.hasToken() && tokenOK:
		return "Bearer " + c.auth.Token, nil
	case c.auth.hasKeys():
		return "", errors.Smart(
			http.StatusUnauthorized,
			errors.MissingCredentials,
			"This operation does not support basic authentication, a deployment token is required",
		)
	}
	return "", errors.Smart(
		http.StatusUnauthorized,
		errors.MissingCredentials,
		fmt.Sprintf("This operation requires %v authentication, access key and secret key are required", authType),
	)
}

func (c *Client) NewRequest(method, urlStr string, authType AuthType, body interface{}) (*http.Request, error) {
	authorization, err := c.authHeader(authType)
	if err != nil {
		return nil, err
	}
	u := strings.TrimSuffix(c.BaseURL.String(), "/") + urlStr

	var reqBody io.Reader
	contentType := "application/json"
	if body != nil {
		switch b := body.(type) {
		case *multipartBody:
			reqBody = b.buf
			contentType = b.contentType
		case io.Reader:
			// plain io.Reader
			reqBody = b
		default:
			// As JSON
			buf := new(bytes.Buffer)
			if err = json.NewEncoder(buf).Encode(body); err != nil {
				return nil, errors.Smart(errors.SerializationFailed, err)
			}
			reqBody = buf
		}
	}

	req, err := http.NewRequest(method, u, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	return req, nil
}

// Do sends an API request. The response is JSON decoded into v, or copied
// as is when v is an io.Writer.
func (c *Client) Do(req *http.Request, v interface{}) (*http.Response, error) {
	logrus.Debugf("[mldeploy] %v %v", req.Method, req.URL.String())
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, errors.Smart(
			http.StatusBadGateway,
			errors.RemoteRequestFailed,
			fmt.Sprintf("%v %v: %v", req.Method, req.URL.Path, err),
		)
	}

	defer func() {
		// Drain up to 512 bytes and close the body to let the Transport reuse the connection
		_, _ = io.CopyN(io.Discard, resp.Body, 512)
		_ = resp.Body.Close()
	}()

	if err = checkResponse(req, resp); err != nil {
		return resp, err
	}
	if v != nil {
		if w, ok := v.(io.Writer); ok {
			_, err = io.Copy(w, resp.Body)
		} else {
			err = json.NewDecoder(resp.Body).Decode(v)
			if err == io.EOF {
				err = nil // ignore EOF errors caused by empty response body
			}
			if err != nil {
				err = errors.Smart(
					http.StatusBadGateway,
					errors.RemoteRequestFailed,
					fmt.Sprintf("Invalid response of %v %v: %v", req.Method, req.URL.Path, err),
				)
			}
		}
	}
	return resp, err
}

func checkResponse(req *http.Request, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	messageBytes, _ := io.ReadAll(resp.Body)
	message := fmt.Sprintf(
		"%v %v failed: %v: %v",
		req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(messageBytes)),
	)
	return errors.Smart(resp.StatusCode, errors.RemoteRequestFailed, message)
}

func (c *Client) do(method, urlStr string, authType AuthType, body, v interface{}) error {
	req, err := c.NewRequest(method, urlStr, authType, body)
	if err != nil {
		return err
	}
	_, err = c.Do(req, v)
	return err
}

func withQuery(u string, query url.Values) string {
	if len(query) == 0 {
		return u
	}
	return u + "?" + query.Encode()
}
