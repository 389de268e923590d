package quickaction

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthguide/models"
	"healthguide/services/discovery"
)

type fakeAdvice struct {
	got   []string
	reply string
	err   error
}

func (f *fakeAdvice) Chat(ctx context.Context, message string) (string, error) {
	f.got = append(f.got, message)
	return f.reply, f.err
}

type fakeFinder struct {
	coords []models.Coordinates
	res    models.DiscoveryResult
	err    error
}

func (f *fakeFinder) FindProviders(ctx context.Context, coords models.Coordinates, t models.ProviderType) (models.DiscoveryResult, error) {
	f.coords = append(f.coords, coords)
	return f.res, f.err
}

type recordingSink struct {
	mu        sync.Mutex
	prefills  []string
	notices   []string
	mapAt     *models.Coordinates
	providers *models.DiscoveryResult
	prompts   []models.AmbulancePrompt
}

func (s *recordingSink) Prefill(text string) {
	s.mu.Lock()
	s.prefills = append(s.prefills, text)
	s.mu.Unlock()
}

func (s *recordingSink) Notice(text string) {
	s.mu.Lock()
	s.notices = append(s.notices, text)
	s.mu.Unlock()
}

func (s *recordingSink) OpenMap(c models.Coordinates) {
	s.mu.Lock()
	s.mapAt = &c
	s.mu.Unlock()
}

func (s *recordingSink) Providers(_ models.Coordinates, res models.DiscoveryResult) {
	s.mu.Lock()
	s.providers = &res
	s.mu.Unlock()
}

func (s *recordingSink) AmbulancePrompt(p models.AmbulancePrompt) {
	s.mu.Lock()
	s.prompts = append(s.prompts, p)
	s.mu.Unlock()
}

func syncGo(f func(context.Context)) { f(context.Background()) }

func TestDispatch_Fever(t *testing.T) {
	advice := &fakeAdvice{}
	d := NewDispatcher(advice, &fakeFinder{}, Config{}, syncGo, nil)
	sink := &recordingSink{}

	require.NoError(t, d.Dispatch(context.Background(), IntentFever, nil, sink))
	assert.Equal(t, []string{"I have a fever. Can you help me assess my symptoms?"}, sink.prefills)
	assert.Empty(t, advice.got)
}

func TestDispatch_Emergency(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  string
	}{
		{"reply", "Call 108 now.", nil, "🚨 Emergency Advice:\nCall 108 now."},
		{"empty reply", "", nil, "🚨 Emergency Advice:\nPlease seek immediate help!"},
		{"failure", "", errors.New("down"), "🚨 Emergency Advice:\nPlease seek immediate help!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advice := &fakeAdvice{reply: tt.reply, err: tt.err}
			sink := &recordingSink{}
			d := NewDispatcher(advice, &fakeFinder{}, Config{}, syncGo, nil)

			require.NoError(t, d.Dispatch(context.Background(), IntentEmergency, nil, sink))
			assert.Equal(t, []string{tt.want}, sink.notices)
			assert.Equal(t, []string{EmergencyPrompt}, advice.got)
		})
	}
}

func TestDispatch_Unknown(t *testing.T) {
	d := NewDispatcher(&fakeAdvice{}, &fakeFinder{}, Config{}, syncGo, nil)
	err := d.Dispatch(context.Background(), "sing", nil, &recordingSink{})
	assert.ErrorIs(t, err, ErrUnknownIntent)
}

func TestDispatch_FindDoctorWithAmbulance(t *testing.T) {
	finder := &fakeFinder{res: models.DiscoveryResult{
		Providers:        []models.Provider{{ID: "h1"}},
		Assessment:       &models.Assessment{NeedsAmbulance: true, UrgencyLevel: models.UrgencyEmergency},
		EmergencyNumbers: map[string]string{"ambulance": "+91 108", "police": "100"},
		Narrative:        "🏥 Nearest emergency room is 1.2 km away",
		Smart:            true,
	}}
	var delayed []func(context.Context)
	d := NewDispatcher(&fakeAdvice{}, finder, Config{AmbulancePromptDelay: time.Millisecond}, func(f func(context.Context)) { delayed = append(delayed, f) }, nil)
	sink := &recordingSink{}

	require.NoError(t, d.Dispatch(context.Background(), IntentFindDoctor, discovery.Fix{Lat: 19.07, Lon: 72.87}, sink))

	assert.Equal(t, []string{
		"📍 Getting your location and assessing your situation... please allow permission.",
		"✅ Location found. Analyzing your situation...",
		"🏥 Nearest emergency room is 1.2 km away",
	}, sink.notices)
	require.NotNil(t, sink.mapAt)
	assert.Equal(t, models.MethodGPS, sink.mapAt.Method)
	require.NotNil(t, sink.providers)
	assert.Equal(t, 19.07, finder.coords[0].Lat)

	// The prompt arrives only after the deferred delay.
	assert.Empty(t, sink.prompts)
	require.Len(t, delayed, 1)
	delayed[0](context.Background())
	require.Len(t, sink.prompts, 1)
	assert.Equal(t, "91108", sink.prompts[0].DialTarget)
	assert.Equal(t,
		"🚨 URGENT: Ambulance may be needed!\n\n📞 Emergency Numbers:\nambulance: +91 108\npolice: 100\n\nPlease call immediately if symptoms are severe!",
		sink.prompts[0].Message)
}

func TestDispatch_AmbulancePromptAbandonedOnShutdown(t *testing.T) {
	finder := &fakeFinder{res: models.DiscoveryResult{
		Assessment:       &models.Assessment{NeedsAmbulance: true},
		EmergencyNumbers: map[string]string{"ambulance": "108"},
	}}
	var delayed []func(context.Context)
	d := NewDispatcher(&fakeAdvice{}, finder, Config{AmbulancePromptDelay: time.Hour}, func(f func(context.Context)) { delayed = append(delayed, f) }, nil)
	sink := &recordingSink{}

	require.NoError(t, d.Dispatch(context.Background(), IntentFindDoctor, discovery.Fix{Lat: 1, Lon: 1}, sink))
	require.Len(t, delayed, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	returned := make(chan struct{})
	go func() {
		delayed[0](ctx)
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("pending prompt ignored shutdown")
	}
	assert.Empty(t, sink.prompts)
}

func TestDispatch_FindDoctorNoAmbulance(t *testing.T) {
	finder := &fakeFinder{res: models.DiscoveryResult{Assessment: &models.Assessment{NeedsAmbulance: false}}}
	called := false
	d := NewDispatcher(&fakeAdvice{}, finder, Config{}, func(func(context.Context)) { called = true }, nil)

	require.NoError(t, d.Dispatch(context.Background(), IntentFindDoctor, discovery.Fix{Lat: 1, Lon: 1}, &recordingSink{}))
	assert.False(t, called)
}

func TestDispatch_FindDoctorGeolocationErrors(t *testing.T) {
	tests := []struct {
		src  discovery.PositionSource
		want string
	}{
		{discovery.Fix{ErrorCode: 1}, "❌ Permission denied. Please allow location access."},
		{discovery.Fix{ErrorCode: 2}, "⚠️ Location unavailable."},
		{discovery.Fix{ErrorCode: 3}, "⌛ Request timed out."},
		{discovery.Fix{ErrorCode: 7}, "❌ Could not fetch location."},
	}
	for _, tt := range tests {
		finder := &fakeFinder{}
		sink := &recordingSink{}
		d := NewDispatcher(&fakeAdvice{}, finder, Config{}, syncGo, nil)

		require.NoError(t, d.Dispatch(context.Background(), IntentFindDoctor, tt.src, sink))
		require.Len(t, sink.notices, 2)
		assert.Equal(t, tt.want, sink.notices[1])
		assert.Nil(t, sink.mapAt)
		assert.Empty(t, finder.coords)
	}
}

func TestDispatch_FindDoctorTimesOutWaitingForFix(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(&fakeAdvice{}, &fakeFinder{}, Config{GPSTimeout: 10 * time.Millisecond}, syncGo, nil)

	require.NoError(t, d.Dispatch(context.Background(), IntentFindDoctor, discovery.NewMailbox(), sink))
	assert.Equal(t, "⌛ Request timed out.", sink.notices[len(sink.notices)-1])
}

func TestDispatch_FindDoctorLookupFails(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(&fakeAdvice{}, &fakeFinder{err: discovery.ErrNoProviders}, Config{}, syncGo, nil)

	require.NoError(t, d.Dispatch(context.Background(), IntentFindDoctor, discovery.Fix{Lat: 1, Lon: 2}, sink))
	assert.Equal(t, "❌ Failed to fetch providers. Please try again.", sink.notices[len(sink.notices)-1])
	assert.NotNil(t, sink.mapAt)
	assert.Nil(t, sink.providers)
}

func TestDispatch_FindDoctorUnsupported(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(&fakeAdvice{}, &fakeFinder{}, Config{}, syncGo, nil)
	require.NoError(t, d.Dispatch(context.Background(), IntentFindDoctor, nil, sink))
	assert.Equal(t, []string{"⚠️ Geolocation not supported."}, sink.notices)
}
