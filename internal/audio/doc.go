// Package audio holds the PCM format used for answers, the WAV container
// codec, and PulseAudio-backed capture and playback.
//
// Capture is exposed through Source/Stream so the recorder can be driven by
// a fake device in tests; PulseSource is the production implementation.
package audio
