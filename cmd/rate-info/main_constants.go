package main

// Name of the configuration block holding the stage settings
const resamplerBlock = "resampler"

// Channel configurations surveyed in demo mode
const (
	monoChannels   = 1
	stereoChannels = 2
	surround5_1    = 6
	surround7_1    = 8
)
