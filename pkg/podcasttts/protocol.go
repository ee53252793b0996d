package podcasttts

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
)

// ================== 协议常量 ==================

type protocolVersion byte
type messageType byte
type messageTypeFlags byte
type serializationType byte
type compressionType byte

const (
	protocolVersionV1 protocolVersion = 0b0001

	// Message Types
	msgTypeFullClient      messageType = 0b0001
	msgTypeAudioOnlyClient messageType = 0b0010
	msgTypeFullServer      messageType = 0b1001
	msgTypeAudioOnlyServer messageType = 0b1011
	msgTypeError           messageType = 0b1111

	// Message Type Specific Flags
	msgFlagNoSequence  messageTypeFlags = 0b0000
	msgFlagPosSequence messageTypeFlags = 0b0001
	msgFlagNegSequence messageTypeFlags = 0b0010
	msgFlagWithEvent   messageTypeFlags = 0b0100

	// Serialization Types
	serializationNone serializationType = 0b0000
	serializationJSON serializationType = 0b0001

	// Compression Types
	compressionNone compressionType = 0b0000
	compressionGzip compressionType = 0b0001
)

// 协议事件码
const (
	// Connection lifecycle
	eventStartConnection    int32 = 1
	eventFinishConnection   int32 = 2
	eventConnectionStarted  int32 = 50
	eventConnectionFailed   int32 = 51
	eventConnectionFinished int32 = 52

	// Session lifecycle
	eventStartSession    int32 = 100
	eventFinishSession   int32 = 102
	eventSessionStarted  int32 = 150
	eventSessionFinished int32 = 152
	eventSessionFailed   int32 = 153
	eventUsageResponse   int32 = 154

	// Podcast stream
	eventPodcastRoundStart    int32 = 360
	eventPodcastRoundResponse int32 = 361
	eventPodcastRoundEnd      int32 = 362
	eventPodcastEnd           int32 = 363
)

// isConnectionEvent 连接级事件（帧内携带 connect_id 而非 session_id）
func isConnectionEvent(event int32) bool {
	switch event {
	case eventStartConnection, eventFinishConnection,
		eventConnectionStarted, eventConnectionFailed, eventConnectionFinished:
		return true
	}
	return false
}

// ================== 协议结构 ==================

// binaryProtocol 二进制协议处理器
//
// 协议格式:
// - Header (4 bytes):
//   - (4bits) version + (4bits) header_size
//   - (4bits) message_type + (4bits) message_type_flags
//   - (4bits) serialization + (4bits) compression
//   - (8bits) reserved
//
// - Payload:
//   - [optional] sequence (4 bytes)
//   - [optional] event (4 bytes)
//   - [optional] session_id / connect_id (4 bytes len + data)
//   - [optional] error_code (4 bytes, error messages only)
//   - payload_size (4 bytes) + payload_data
type binaryProtocol struct {
	version       protocolVersion
	headerSize    byte
	compression   compressionType
	serialization serializationType
}

// message 协议消息
type message struct {
	msgType   messageType
	flags     messageTypeFlags
	event     int32
	sessionID string
	connectID string
	sequence  int32
	errorCode uint32
	payload   []byte
}

// newBinaryProtocol 创建协议处理器
func newBinaryProtocol() *binaryProtocol {
	return &binaryProtocol{
		version:       protocolVersionV1,
		headerSize:    1, // 4 bytes
		compression:   compressionNone,
		serialization: serializationJSON,
	}
}

// setCompression 设置压缩方式
func (p *binaryProtocol) setCompression(c compressionType) {
	p.compression = c
}

// marshal 序列化消息
func (p *binaryProtocol) marshal(msg *message) ([]byte, error) {
	buf := new(bytes.Buffer)

	// Header (4 bytes)
	serialization := p.serialization
	if msg.msgType == msgTypeAudioOnlyClient || msg.msgType == msgTypeAudioOnlyServer {
		serialization = serializationNone
	}
	buf.WriteByte(byte(p.version<<4) | p.headerSize)
	buf.WriteByte(byte(msg.msgType<<4) | byte(msg.flags))
	buf.WriteByte(byte(serialization<<4) | byte(p.compression))
	buf.WriteByte(0x00) // reserved

	// Sequence (if needed)
	if msg.flags&msgFlagPosSequence != 0 || msg.flags&msgFlagNegSequence != 0 {
		if err := binary.Write(buf, binary.BigEndian, msg.sequence); err != nil {
			return nil, fmt.Errorf("write sequence: %w", err)
		}
	}

	// Event (if needed)
	if msg.flags&msgFlagWithEvent != 0 {
		if err := binary.Write(buf, binary.BigEndian, msg.event); err != nil {
			return nil, fmt.Errorf("write event: %w", err)
		}

		if isConnectionEvent(msg.event) {
			// StartConnection/FinishConnection carry no id; server-side
			// connection events carry a connect_id.
			if msg.event != eventStartConnection && msg.event != eventFinishConnection {
				if err := writeString(buf, msg.connectID); err != nil {
					return nil, fmt.Errorf("write connect id: %w", err)
				}
			}
		} else {
			if err := writeString(buf, msg.sessionID); err != nil {
				return nil, fmt.Errorf("write session id: %w", err)
			}
		}
	}

	// Error code (error messages only)
	if msg.msgType == msgTypeError {
		if err := binary.Write(buf, binary.BigEndian, msg.errorCode); err != nil {
			return nil, fmt.Errorf("write error code: %w", err)
		}
	}

	// Payload
	payload := msg.payload
	if p.compression == compressionGzip && len(payload) > 0 {
		compressed, err := gzipCompress(payload)
		if err != nil {
			return nil, fmt.Errorf("gzip compress: %w", err)
		}
		payload = compressed
	}

	if err := binary.Write(buf, binary.BigEndian, uint32(len(payload))); err != nil {
		return nil, fmt.Errorf("write payload size: %w", err)
	}
	buf.Write(payload)

	return buf.Bytes(), nil
}

// unmarshal 反序列化消息
func (p *binaryProtocol) unmarshal(data []byte) (*message, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("data too short: %d bytes", len(data))
	}

	buf := bytes.NewBuffer(data)

	// Read header
	versionAndSize, _ := buf.ReadByte()
	typeAndFlags, _ := buf.ReadByte()
	serAndComp, _ := buf.ReadByte()
	_, _ = buf.ReadByte() // reserved

	msg := &message{
		msgType: messageType(typeAndFlags >> 4),
		flags:   messageTypeFlags(typeAndFlags & 0x0f),
	}

	compression := compressionType(serAndComp & 0x0f)

	// Header size (in 4-byte units)
	headerSize := int(versionAndSize & 0x0f)
	if headerSize > 1 {
		// Skip additional header bytes
		buf.Next((headerSize - 1) * 4)
	}

	// Read sequence if present
	if msg.flags&msgFlagPosSequence != 0 || msg.flags&msgFlagNegSequence != 0 {
		if err := binary.Read(buf, binary.BigEndian, &msg.sequence); err != nil {
			return nil, fmt.Errorf("read sequence: %w", err)
		}
	}

	// Read event if present
	if msg.flags&msgFlagWithEvent != 0 {
		if err := binary.Read(buf, binary.BigEndian, &msg.event); err != nil {
			return nil, fmt.Errorf("read event: %w", err)
		}

		if isConnectionEvent(msg.event) {
			if msg.event != eventStartConnection && msg.event != eventFinishConnection {
				connectID, err := readString(buf)
				if err != nil {
					return nil, fmt.Errorf("read connect id: %w", err)
				}
				msg.connectID = connectID
			}
		} else {
			sessionID, err := readString(buf)
			if err != nil {
				return nil, fmt.Errorf("read session id: %w", err)
			}
			msg.sessionID = sessionID
		}
	}

	// Read error code for error messages
	if msg.msgType == msgTypeError {
		if err := binary.Read(buf, binary.BigEndian, &msg.errorCode); err != nil {
			return nil, fmt.Errorf("read error code: %w", err)
		}
	}

	// Read payload
	var payloadSize uint32
	if err := binary.Read(buf, binary.BigEndian, &payloadSize); err != nil {
		return nil, fmt.Errorf("read payload size: %w", err)
	}

	if payloadSize > 0 {
		msg.payload = make([]byte, payloadSize)
		if _, err := io.ReadFull(buf, msg.payload); err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}

		// Decompress if needed
		if compression == compressionGzip {
			decompressed, err := gzipDecompress(msg.payload)
			if err != nil {
				return nil, fmt.Errorf("gzip decompress: %w", err)
			}
			msg.payload = decompressed
		}
	}

	return msg, nil
}

// isAudioOnly 是否为纯音频消息
func (msg *message) isAudioOnly() bool {
	return msg.msgType == msgTypeAudioOnlyServer || msg.msgType == msgTypeAudioOnlyClient
}

// isError 是否为错误消息
func (msg *message) isError() bool {
	return msg.msgType == msgTypeError
}

func writeString(buf *bytes.Buffer, s string) error {
	if err := binary.Write(buf, binary.BigEndian, uint32(len(s))); err != nil {
		return err
	}
	buf.WriteString(s)
	return nil
}

func readString(buf *bytes.Buffer) (string, error) {
	var n uint32
	if err := binary.Read(buf, binary.BigEndian, &n); err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	if int(n) > buf.Len() {
		return "", fmt.Errorf("declared length %d exceeds remaining %d bytes", n, buf.Len())
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(buf, b); err != nil {
		return "", err
	}
	return string(b), nil
}

// gzipCompress gzip 压缩
func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// gzipDecompress gzip 解压
func gzipDecompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
