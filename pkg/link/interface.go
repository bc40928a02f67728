package link

// Device defines the interface for LDR reporter devices (real or mocked).
type Device interface {
	Connect() error
	Close() error
	Reports() <-chan Report
	Increase() error
	Decrease() error
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
