// Package engine is the contract with the external dubbing engine, which
// performs the actual speech separation, diarization, translation,
// text-to-speech, and remux work. This repository only drives it: one
// Session per job, one Dub or DubFromScript call per target language, Close
// on every exit path.
package engine
