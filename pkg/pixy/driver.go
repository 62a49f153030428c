// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Camtools

package pixy

import "encoding/binary"

// Driver is the polling command facade over one camera.
//
// Every operation follows the same non-blocking contract: the first call
// while the driver is idle transmits the command, arms the receiver and
// returns ErrBusy; the application re-invokes the same operation until it
// stops returning ErrBusy, at which point the decoded result (or a decode
// error) is returned and the driver is idle again.
//
// Exactly one request may be outstanding at a time. The driver does not
// enforce this: invoking a different operation while a request is pending
// simply returns ErrBusy without transmitting, so a violation is harmless
// but indistinguishable from normal polling. Interleaving commands is the
// caller's responsibility to avoid.
//
// The receive path is driven independently: the application must deliver
// every byte read from the serial link to Feed, in order and without loss.
//
// Commands acknowledged by a header-only frame (zero payload length) never
// reach a ready state; the receiver loops straight back to idle and the
// next call of the operation transmits the command again. Current camera
// firmwares always acknowledge with a 4-byte status payload.
type Driver struct {
	t  Transport
	rx Receiver
}

// New creates a driver transmitting on t. Reception is wired by the caller
// through Feed.
func New(t Transport) *Driver {
	return &Driver{t: t}
}

// Feed delivers one received byte to the frame receiver. It is meant to be
// called from the serial receive callback: it runs in O(1), never blocks,
// and never signals errors — decode problems surface on the polling side.
func (d *Driver) Feed(b byte) {
	d.rx.Feed(b)
}

// State exposes the receiver state for diagnostics.
func (d *Driver) State() State {
	return d.rx.State()
}

// Abort abandons the outstanding request, if any, and returns the driver
// to idle. Meant for callers that impose their own response deadline. A
// reply that arrives after the abort is treated as line noise by the next
// exchange.
func (d *Driver) Abort() {
	d.rx.Consume()
}

// begin transmits a command and arms the receiver. The receiver is armed
// first so the write position is reset before any reply byte can arrive.
func (d *Driver) begin(typeID byte, payload []byte) error {
	d.rx.Arm()
	if err := Send(d.t, typeID, payload); err != nil {
		d.rx.Consume()
		return err
	}
	return ErrBusy
}

// poll implements the shared idle/busy/ready cycle. decode runs only on a
// complete frame that passed checksum validation; whatever it returns, the
// receiver is back to idle afterwards. The write position is reset by the
// next begin, never retroactively.
func (d *Driver) poll(typeID byte, payload []byte, decode func() error) error {
	switch d.rx.State() {
	case StateIdle:
		return d.begin(typeID, payload)

	case StateFrameReady:
		defer d.rx.Consume()
		if d.rx.HasChecksum() && !d.rx.ValidateChecksum() {
			return ErrBadChecksum
		}
		return decode()

	default:
		return ErrBusy
	}
}

// ackStatus decodes an acknowledgement or error reply into a driver error.
func (d *Driver) ackStatus() error {
	switch d.rx.TypeID() {
	case RepAck, RepError:
		return statusErr(d.rx.Status())
	default:
		return ErrTypeMismatch
	}
}

// GetVersion queries the hardware and firmware version of the camera.
func (d *Driver) GetVersion() (Version, error) {
	var v Version
	err := d.poll(ReqGetVersion, nil, func() error {
		switch d.rx.TypeID() {
		case RepVersion:
			v = Version{b: d.rx.Payload()}
			return nil
		case RepError:
			return statusErr(d.rx.Status())
		default:
			return ErrTypeMismatch
		}
	})
	return v, err
}

// GetResolution queries the frame dimensions of the camera's current
// program. The single payload byte is reserved and always zero.
func (d *Driver) GetResolution() (Resolution, error) {
	var r Resolution
	err := d.poll(ReqGetResolution, []byte{0}, func() error {
		switch d.rx.TypeID() {
		case RepResolution:
			r = Resolution{b: d.rx.Payload()}
			return nil
		case RepError:
			return statusErr(d.rx.Status())
		default:
			return ErrTypeMismatch
		}
	})
	return r, err
}

// SetBrightness sets the relative exposure level of the image sensor.
// The value is passed through unchecked; the camera is authoritative on
// acceptance.
func (d *Driver) SetBrightness(brightness byte) error {
	return d.poll(ReqSetBrightness, []byte{brightness}, d.ackStatus)
}

// SetServos sets the positions of the two RC servo outputs (0-511 each).
func (d *Driver) SetServos(s0, s1 uint16) error {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint16(payload[0:2], s0)
	binary.LittleEndian.PutUint16(payload[2:4], s1)
	return d.poll(ReqSetServos, payload, d.ackStatus)
}

// SetLED overrides the camera's RGB LED with the given component values.
func (d *Driver) SetLED(red, green, blue byte) error {
	return d.poll(ReqSetLED, []byte{red, green, blue}, d.ackStatus)
}

// SetLamp switches the integrated light sources: upper drives the two
// white LEDs along the top edge of the board, lower drives the RGB LED at
// full white. Zero is off, non-zero is on.
func (d *Driver) SetLamp(upper, lower byte) error {
	return d.poll(ReqSetLamp, []byte{upper, lower}, d.ackStatus)
}

// GetFPS queries the current framerate in frames per second. Low values
// double as a rough indicator of a dim environment.
func (d *Driver) GetFPS() (uint32, error) {
	var fps uint32
	err := d.poll(ReqGetFPS, nil, func() error {
		switch d.rx.TypeID() {
		case RepFPS:
			fps = uint32(d.rx.Status())
			return nil
		case RepError:
			return statusErr(d.rx.Status())
		default:
			return ErrTypeMismatch
		}
	})
	return fps, err
}

// GetBlocks queries the color blocks detected in the most recent frame.
// sigmap ORs the signature bits to accept (1<<0 for signature 1 through
// 1<<6 for signature 7, 1<<7 for color codes; 255 accepts all); maxBlocks
// caps the number of blocks returned.
func (d *Driver) GetBlocks(sigmap, maxBlocks byte) (Blocks, error) {
	var blocks Blocks
	err := d.poll(ReqGetBlocks, []byte{sigmap, maxBlocks}, func() error {
		switch d.rx.TypeID() {
		case RepBlocks:
			blocks = Blocks{b: d.rx.Payload()}
			return nil
		case RepError:
			return statusErr(d.rx.Status())
		default:
			return ErrTypeMismatch
		}
	})
	return blocks, err
}

// GetMainFeatures queries the line-tracking features most relevant for
// single-line following. features ORs the FeatureVector,
// FeatureIntersection and FeatureBarcode bits to accept.
func (d *Driver) GetMainFeatures(features byte) (*FeatureSet, error) {
	return d.getFeatures(FeaturesMain, features)
}

// GetAllFeatures queries every line-tracking feature in the most recent
// frame, filtered like GetMainFeatures.
func (d *Driver) GetAllFeatures(features byte) (*FeatureSet, error) {
	return d.getFeatures(FeaturesAll, features)
}

func (d *Driver) getFeatures(selector, features byte) (*FeatureSet, error) {
	var set *FeatureSet
	err := d.poll(ReqGetFeatures, []byte{selector, features}, func() error {
		switch d.rx.TypeID() {
		case RepFeatures:
			set = parseFeatures(d.rx.Payload())
			return nil
		case RepError:
			return statusErr(d.rx.Status())
		default:
			return ErrTypeMismatch
		}
	})
	return set, err
}

// SetMode sets line-tracking algorithm modes, an OR of ModeTurnDelayed,
// ModeManualSelectVector and ModeWhiteLine.
func (d *Driver) SetMode(mode byte) error {
	return d.poll(ReqSetMode, []byte{mode}, d.ackStatus)
}

// SetNextTurn tells the line-tracking algorithm which path to take at the
// next intersection only, in degrees: 0 straight ahead, 90 left, -90
// right. Subsequent intersections fall back to the default turn angle.
func (d *Driver) SetNextTurn(angle int16) error {
	payload := make([]byte, 2)
	binary.LittleEndian.PutUint16(payload, uint16(angle))
	return d.poll(ReqSetNextTurn, payload, d.ackStatus)
}

// SetDefaultTurn sets the default path choice for intersections, in the
// same degree convention as SetNextTurn.
func (d *Driver) SetDefaultTurn(angle int16) error {
	payload := make([]byte, 2)
	binary.LittleEndian.PutUint16(payload, uint16(angle))
	return d.poll(ReqSetDefTurn, payload, d.ackStatus)
}

// SetVector selects the vector to follow by index. Only effective when
// ModeManualSelectVector is set.
func (d *Driver) SetVector(index byte) error {
	return d.poll(ReqSetVector, []byte{index}, d.ackStatus)
}

// ReverseVector inverts the head and tail of the tracked vector.
func (d *Driver) ReverseVector() error {
	return d.poll(ReqReverseVector, nil, d.ackStatus)
}

// GetRGB queries the average color of the 5x5 pixel square centered on
// (x, y). When saturate is non-zero the components are scaled so the
// largest one reads 255.
func (d *Driver) GetRGB(x, y uint16, saturate byte) (Pixel, error) {
	payload := make([]byte, 5)
	binary.LittleEndian.PutUint16(payload[0:2], x)
	binary.LittleEndian.PutUint16(payload[2:4], y)
	payload[4] = saturate

	var px Pixel
	err := d.poll(ReqGetRGB, payload, func() error {
		switch d.rx.TypeID() {
		case RepAck:
			px = Pixel{b: d.rx.Payload()}
			return nil
		case RepError:
			return statusErr(d.rx.Status())
		default:
			return ErrTypeMismatch
		}
	})
	return px, err
}
