package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"frelections/internal/fileio"
)

// ErrNotFound is returned when the ministry site has no document at a path
// (typically a commune that has not reported yet).
var ErrNotFound = errors.New("scrape: document not found")

// ErrRoundMissing is returned when a commune document has no results for
// the client's round.
var ErrRoundMissing = errors.New("scrape: round missing from document")

// FetchError describes a failed acquisition.
type FetchError struct {
	Path   string
	Status int // 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Path, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Path, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches raw documents from one results site.
type Client struct {
	Endpoint string
	Round    int

	http *resty.Client
	log  zerolog.Logger
}

func NewClient(endpoint string, round int, timeout time.Duration, logger zerolog.Logger) *Client {
	if round < 1 {
		round = 1
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	hc := resty.New()
	hc.SetBaseURL(endpoint)
	hc.SetTimeout(timeout)
	hc.SetHeader("User-Agent", "frelections/1.0")

	return &Client{
		Endpoint: endpoint,
		Round:    round,
		http:     hc,
		log:      logger.With().Str("component", "scrape").Logger(),
	}
}

// Acquire returns the body of the document at path, relative to the endpoint.
// No retry is attempted.
func (c *Client) Acquire(ctx context.Context, path string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, &FetchError{Path: path, Err: err}
	}
	switch {
	case res.StatusCode() == http.StatusNotFound:
		return nil, &FetchError{Path: path, Status: res.StatusCode(), Err: ErrNotFound}
	case res.IsError():
		return nil, &FetchError{Path: path, Status: res.StatusCode(), Err: errors.New(res.Status())}
	}
	c.log.Debug().Str("path", path).Int("bytes", len(res.Body())).Dur("took", res.Time()).Msg("fetched")
	return res.Body(), nil
}

// decode fetches path and decodes its XML body into v.
func (c *Client) decode(ctx context.Context, path string, v any) error {
	body, err := c.Acquire(ctx, path)
	if err != nil {
		return err
	}
	if err := fileio.DecodeXML(bytes.NewReader(body), v); err != nil {
		return &FetchError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

func (c *Client) roundDir() string { return fmt.Sprintf("resultatsT%d", c.Round) }

// IndexPath is the path of the round index.
func (c *Client) IndexPath() string { return c.roundDir() + "/index.xml" }

// DepartmentPath is the path of a department's commune listing.
func (c *Client) DepartmentPath(d Department) string {
	return fmt.Sprintf("%s/%s/%s/%sIDX.xml", c.roundDir(), d.CodReg3Car, d.CodDpt3Car, d.CodDpt3Car)
}

// CommunePath is the path of one commune result document.
func (c *Client) CommunePath(d Department, codSubCom string) string {
	return fmt.Sprintf("%s/%s/%s/%s%s.xml", c.roundDir(), d.CodReg3Car, d.CodDpt3Car, d.CodDpt3Car, codSubCom)
}

// Index fetches and decodes the round index.
func (c *Client) Index(ctx context.Context) (Index, error) {
	var idx Index
	if err := c.decode(ctx, c.IndexPath(), &idx); err != nil {
		return Index{}, err
	}
	return idx, nil
}

// Communes fetches the commune listing of a department.
func (c *Client) Communes(ctx context.Context, d Department) ([]CommuneRef, error) {
	var doc departmentDoc
	if err := c.decode(ctx, c.DepartmentPath(d), &doc); err != nil {
		return nil, err
	}
	return doc.Communes, nil
}

// Commune fetches one commune result. The document must carry the
// client's round.
func (c *Client) Commune(ctx context.Context, d Department, codSubCom string) (CommuneDoc, error) {
	var doc communeFile
	path := c.CommunePath(d, codSubCom)
	if err := c.decode(ctx, path, &doc); err != nil {
		return CommuneDoc{}, err
	}
	com := doc.Departement.Commune
	if _, ok := com.Tour(c.Round); !ok {
		return CommuneDoc{}, &FetchError{Path: path, Err: fmt.Errorf("round %d: %w", c.Round, ErrRoundMissing)}
	}
	return com, nil
}
