package podcasttts

import "bytes"

// audioAccumulator 音频累积器
//
// committed 只保存已成功结束轮次的音频；当前轮次的分片先进入
// pending，轮次成功结束后提交。断线重连后服务端从断点轮次重新
// 推送，未提交的 pending 直接丢弃，保证每轮音频恰好出现一次。
type audioAccumulator struct {
	committed bytes.Buffer
	pending   bytes.Buffer
	rounds    int
}

func newAudioAccumulator() *audioAccumulator {
	return &audioAccumulator{}
}

// beginRound 开始新轮次，丢弃上一轮未提交的分片
func (a *audioAccumulator) beginRound() {
	a.pending.Reset()
}

// appendChunk 追加当前轮次的音频分片
func (a *audioAccumulator) appendChunk(data []byte) {
	a.pending.Write(data)
}

// commitRound 当前轮次成功结束，提交其音频
func (a *audioAccumulator) commitRound() {
	a.committed.Write(a.pending.Bytes())
	a.pending.Reset()
	a.rounds++
}

// discardRound 丢弃当前轮次的未提交音频
func (a *audioAccumulator) discardRound() {
	a.pending.Reset()
}

// bytes 返回已提交的音频
func (a *audioAccumulator) bytes() []byte {
	return a.committed.Bytes()
}

// total 返回已提交与未提交音频的总字节数
func (a *audioAccumulator) total() int {
	return a.committed.Len() + a.pending.Len()
}
