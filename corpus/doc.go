// Package corpus builds a labeled reverberant speech corpus.
//
// Clean recordings are paired with room impulse responses by a seeded,
// strictly sequential scheduler (Plan). Each pairing is convolved, measured
// and written as a 16-bit WAV under audio/shard_NNN/, and labeled with the
// RIR's RT60, DRR and C50 together with the output's loudness and duration.
// Manifests are written to metadata/ and a run summary to stats/.
//
// Train/dev/test membership depends only on the clean recording's ID
// (AssignSplit), so all variants of one utterance land in the same split
// on every run and machine.
package corpus
