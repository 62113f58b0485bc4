package nn

import "github.com/strata-ml/strata/internal/ndarray"

// TrainingMode tags an output pass as a training or inference pass.
type TrainingMode int

// Training modes.
const (
	Test TrainingMode = iota
	Train
)

// String returns the mode name.
func (m TrainingMode) String() string {
	if m == Train {
		return "train"
	}
	return "test"
}

// Config holds the network-level training configuration.
type Config struct {
	// Seed for weight initialization. Zero seeds from the current time.
	Seed int64

	// LR is the learning rate.
	LR float64

	// Momentum is used by the "momentum" updater and ignored otherwise.
	Momentum float64

	// Updater selects the optimizer: "sgd" (default), "momentum" or "adam".
	Updater string

	// L2 is the L2 regularization coefficient. Zero disables it.
	L2 float64

	// Backend runs the array math. Nil selects the CPU backend.
	Backend ndarray.Backend
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.LR == 0 {
		c.LR = 0.01
	}
	if c.Updater == "" {
		c.Updater = "sgd"
	}
	return c
}
