// Package podcasttts 提供多人播客语音合成的 Go 实现
//
// 本包封装火山引擎 SAMI 播客合成的 WebSocket 协议，支持三种输入模式：
//
//   - ActionDialogue: 直接合成现成的双人对话稿 (nlp_texts)
//   - ActionTopic: 按话题生成并合成对话 (prompt_text)
//   - ActionSummary: 从原始素材或网页生成并合成对话 (input_text / input_url)
//
// # 快速开始
//
// 创建客户端：
//
//	client := podcasttts.NewClient("your_app_id",
//	    podcasttts.WithAccessKey("your_access_key"),
//	)
//
// 合成播客：
//
//	result, err := client.Podcast.Generate(ctx, &podcasttts.PodcastRequest{
//	    Action:     podcasttts.ActionTopic,
//	    PromptText: "聊聊最近的 AI 进展",
//	    SpeakerInfo: &podcasttts.SpeakerInfo{
//	        Speakers: []string{
//	            podcasttts.VoiceDayiXiansheng,
//	            podcasttts.VoiceMizaiTongxue,
//	        },
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// result.Audio 包含完整音频
//
// # 断点续传
//
// 播客合成按轮次（每位主播的一段话）流式返回音频。单轮失败或连接中断
// 时，Generate 自动重连，并通过 retry_info 从最后一个成功轮次之后继续，
// 已收到的轮次不会重复合成。重试次数与退避间隔可通过 WithRetryBudget
// 和 WithBackoff 调整。
//
// # 错误处理
//
// 协议层错误（鉴权失败、参数错误等）不可重试，返回 *Error：
//
//	if err != nil {
//	    if e, ok := podcasttts.AsError(err); ok {
//	        if e.IsAuthError() {
//	            // 检查凭证
//	        }
//	    }
//	}
//
// 重试预算耗尽时返回的错误包装 ErrRetryExhausted 与最后一次失败原因。
package podcasttts
