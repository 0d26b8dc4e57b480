// Package recorder coordinates spoken-answer capture sessions.
//
// Each user gets at most one capture session. A session is a goroutine that
// exclusively owns the captured frames: a reader goroutine hands it frames
// from the device stream, and stop requests arrive on a control channel. On
// stop the frames are written to a timestamped WAV file by the Persister and
// the file is passed to the Transcriber.
//
//	Idle --Start--> Recording --Stop--> (persist, transcribe) --> Idle
package recorder
