package gavgpool

// config holds the quantization settings of an Operator.
type config struct {
	inputZeroPoint  uint8
	inputScale      float32
	outputZeroPoint uint8
	outputScale     float32
	outputMin       uint8
	outputMax       uint8
}

// Option mutates an operator config.
type Option func(*config)

func defaultConfig() config {
	return config{
		inputZeroPoint:  128,
		inputScale:      1,
		outputZeroPoint: 128,
		outputScale:     1,
		outputMin:       0,
		outputMax:       255,
	}
}

// WithInputQuantization sets the affine parameters of the input tensor.
// The zero point is validated and carried but does not enter the result:
// channel sums are scaled as-is, with no -width*zeroPoint bias subtracted.
func WithInputQuantization(zeroPoint uint8, scale float32) Option {
	return func(cfg *config) {
		cfg.inputZeroPoint = zeroPoint
		cfg.inputScale = scale
	}
}

// WithOutputQuantization sets the affine parameters of the output tensor.
func WithOutputQuantization(zeroPoint uint8, scale float32) Option {
	return func(cfg *config) {
		cfg.outputZeroPoint = zeroPoint
		cfg.outputScale = scale
	}
}

// WithOutputRange clamps outputs to [outputMin, outputMax].
func WithOutputRange(outputMin, outputMax uint8) Option {
	return func(cfg *config) {
		cfg.outputMin = outputMin
		cfg.outputMax = outputMax
	}
}

func applyOptions(opts ...Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
