package core

const AVG_COUNT uint8 = 30

// Metrics keeps a rolling average of the time between playback steps and a
// steps-per-second counter.
type Metrics struct {
	StepAVGCounter    uint8
	MStimes           [AVG_COUNT]float64
	MSavg             float64
	Steps             int32
	TotalSteps        int64
	AccumulatedStepMS float64
	SPS               float64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Update records one step taken elapsed seconds after the previous one.
func (m *Metrics) Update(elapsed float64) {
	// Calculate step ms average
	step_ms := elapsed * 1000.0
	m.MStimes[m.StepAVGCounter] = step_ms
	m.TotalSteps++

	samples := AVG_COUNT
	if m.TotalSteps < int64(AVG_COUNT) {
		samples = uint8(m.TotalSteps)
	}
	sum := 0.0
	for i := uint8(0); i < samples; i++ {
		sum += m.MStimes[i]
	}
	m.MSavg = sum / float64(samples)

	m.StepAVGCounter++
	m.StepAVGCounter %= AVG_COUNT

	// Calculate steps per second.
	m.AccumulatedStepMS += step_ms
	m.Steps++
	if m.AccumulatedStepMS >= 1000 {
		m.SPS = float64(m.Steps)
		m.AccumulatedStepMS -= 1000
		m.Steps = 0
	}
}

// StepsPerSecond is the rate over the last full second. Before a second has
// passed it is derived from the average time between steps.
func (m *Metrics) StepsPerSecond() float64 {
	if m.SPS == 0 && m.MSavg > 0 {
		return 1000 / m.MSavg
	}
	return m.SPS
}

func (m *Metrics) StepTime() float64 {
	return m.MSavg
}

func (m *Metrics) Reset() {
	*m = Metrics{}
}
