package mocks

import (
	"github.com/brettbedarf/filetree/filesystem"
	"github.com/stretchr/testify/mock"
)

// MockAuditor implements filesystem.Auditor so tests can observe or fake audits
type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) NodeIsValid(n *filesystem.Node) bool {
	args := m.Called(n)
	return args.Bool(0)
}

func (m *MockAuditor) TreeIsValid(initialized bool, root filesystem.NodeID, count int) bool {
	args := m.Called(initialized, root, count)
	return args.Bool(0)
}

var _ filesystem.Auditor = (*MockAuditor)(nil)
