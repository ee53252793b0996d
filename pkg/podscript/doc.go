// Package podscript parses two-host dialogue scripts and prepares them
// for podcast synthesis.
//
// A script is plain text where each line may start with a speaker marker:
//
//	A: 大家好，欢迎收听今天的节目。
//	B: 是的，今天我们要聊的话题非常有趣。
//	【大意】那我们开始吧。
//	**咪仔**: 好的。
//
// Lines without a marker continue the most recent speaker's turn.
// Parsed turns are then segmented to satisfy the synthesis service's
// per-line and total-payload size limits.
package podscript
