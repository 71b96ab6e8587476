package action_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/macrograph/pkg/action"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDevice struct {
	mock.Mock
}

func (m *mockDevice) Click(ctx context.Context, x, y int, button string) error {
	return m.Called(x, y, button).Error(0)
}

func (m *mockDevice) Press(ctx context.Context, key string) error {
	return m.Called(key).Error(0)
}

func (m *mockDevice) Type(ctx context.Context, text string) error {
	return m.Called(text).Error(0)
}

func TestClick_DispatchesExactPoint(t *testing.T) {
	dev := new(mockDevice)
	dev.On("Click", 10, 20, "right").Return(nil).Once()

	err := action.NewClick(dev, 10, 20, action.ButtonRight).Execute(context.Background())
	require.NoError(t, err)
	dev.AssertExpectations(t)
}

func TestClick_DefaultButton(t *testing.T) {
	c := action.NewClick(new(mockDevice), 1, 1, "")
	assert.Equal(t, action.ButtonLeft, c.Button)
}

func TestClick_JitterWithinRadius(t *testing.T) {
	dev := new(mockDevice)
	dev.On("Click", mock.MatchedBy(func(x int) bool { return x >= 97 && x <= 103 }),
		mock.MatchedBy(func(y int) bool { return y >= 47 && y <= 53 }), "left").Return(nil)

	c := action.NewClick(dev, 100, 50, "left")
	c.Jitter = 3
	for i := 0; i < 20; i++ {
		require.NoError(t, c.Execute(context.Background()))
	}
	dev.AssertNumberOfCalls(t, "Click", 20)
}

func TestClick_WrapsDeviceError(t *testing.T) {
	boom := errors.New("no display")
	dev := new(mockDevice)
	dev.On("Click", 1, 2, "left").Return(boom)

	err := action.NewClick(dev, 1, 2, "left").Execute(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "click left at (1,2)")
}

func TestKeyboardActions(t *testing.T) {
	dev := new(mockDevice)
	dev.On("Press", "enter").Return(nil).Once()
	dev.On("Type", "hello").Return(nil).Once()

	ctx := context.Background()
	require.NoError(t, action.NewKeyPress(dev, "enter").Execute(ctx))
	require.NoError(t, action.NewTypeText(dev, "hello").Execute(ctx))
	dev.AssertExpectations(t)
}

func TestWait_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &action.Wait{Duration: time.Hour}
	err := w.Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWait_Elapses(t *testing.T) {
	start := time.Now()
	w := &action.Wait{Duration: 20 * time.Millisecond}
	require.NoError(t, w.Execute(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "click(1,2,left)", action.Describe(action.NewClick(nil, 1, 2, "")))
	assert.Equal(t, "key(tab)", action.Describe(action.NewKeyPress(nil, "tab")))
	assert.Equal(t, "action.Func", action.Describe(action.Func(func(context.Context) error { return nil })))
}
