package vcs

import (
	"context"
	"fmt"
)

// Mock implements Interface in memory for tests.
type Mock struct {
	object []byte
	head   string
	amends []AmendOpts

	// headAfterAmend replaces head once AmendTimestamps runs, standing in
	// for the hash changing when git rewrites the commit.
	headAfterAmend string
	amendErr       error
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SetObject(raw []byte) *Mock {
	m.object = raw
	return m
}

func (m *Mock) SetHead(hash string) *Mock {
	m.head = hash
	return m
}

func (m *Mock) SetHeadAfterAmend(hash string) *Mock {
	m.headAfterAmend = hash
	return m
}

func (m *Mock) FailAmends(err error) *Mock {
	m.amendErr = err
	return m
}

// Amends returns the amend calls made so far.
func (m *Mock) Amends() []AmendOpts {
	return m.amends
}

func (m *Mock) ReadCommitObject(ctx context.Context, rev string) ([]byte, error) {
	if m.object == nil {
		return nil, fmt.Errorf("vcs: no object for %q", rev)
	}
	return m.object, nil
}

func (m *Mock) AmendTimestamps(ctx context.Context, opts AmendOpts) error {
	if m.amendErr != nil {
		return m.amendErr
	}
	m.amends = append(m.amends, opts)
	if m.headAfterAmend != "" {
		m.head = m.headAfterAmend
	}
	return nil
}

func (m *Mock) CurrentCommit(ctx context.Context) (string, error) {
	if m.head == "" {
		return "", fmt.Errorf("vcs: no commits")
	}
	return m.head, nil
}
