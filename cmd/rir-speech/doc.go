// Command rir-speech builds reverberant speech corpora.
//
//	rir-speech build --clean-root CLEAN --rir-root RIRS --out-root OUT
//	rir-speech validate --out-root OUT
//	rir-speech rir-metrics RIRS
//	rir-speech synth-rirs --out RIRS --count 32
//	rir-speech config sample rir-speech.toml
package main
