package container

import "github.com/arloliu/tachyon/format"

// Controller is the packed 16-bit field that prefixes every container header
// on disk. Bit layout (LSB first), matching the archive's external wire
// format exactly:
//
//	bit 0      signedness  (0 = unsigned, 1 = signed)
//	bit 1      mixed-stride flag
//	bits 2-7   primitive type (6 bits)
//	bits 8-12  encoder id (5 bits)
//	bit 13     uniform flag
//	bits 14-15 encryption id (2 bits)
type Controller uint16

const (
	signednessMask   = 0x0001
	mixedStrideMask  = 0x0002
	primitiveShift   = 2
	primitiveMask    = 0x3F
	encoderShift     = 8
	encoderMask      = 0x1F
	uniformBit       = 1 << 13
	encryptionShift  = 14
	encryptionMask   = 0x3
)

func NewController() Controller { return Controller(0) }

func (c Controller) Signed() bool { return c&signednessMask != 0 }

func (c *Controller) SetSigned(signed bool) {
	if signed {
		*c |= signednessMask
	} else {
		*c &^= signednessMask
	}
}

func (c Controller) MixedStride() bool { return c&mixedStrideMask != 0 }

func (c *Controller) SetMixedStride(mixed bool) {
	if mixed {
		*c |= mixedStrideMask
	} else {
		*c &^= mixedStrideMask
	}
}

func (c Controller) PrimitiveType() format.PrimitiveType {
	return format.PrimitiveType((c >> primitiveShift) & primitiveMask)
}

func (c *Controller) SetPrimitiveType(p format.PrimitiveType) {
	*c &^= primitiveMask << primitiveShift
	*c |= Controller(uint16(p)&primitiveMask) << primitiveShift
}

func (c Controller) EncoderID() format.EncoderID {
	return format.EncoderID((c >> encoderShift) & encoderMask)
}

func (c *Controller) SetEncoderID(e format.EncoderID) {
	*c &^= encoderMask << encoderShift
	*c |= Controller(uint16(e)&encoderMask) << encoderShift
}

func (c Controller) Uniform() bool { return c&uniformBit != 0 }

func (c *Controller) SetUniform(uniform bool) {
	if uniform {
		*c |= uniformBit
	} else {
		*c &^= uniformBit
	}
}

func (c Controller) EncryptionID() format.EncryptionID {
	return format.EncryptionID((c >> encryptionShift) & encryptionMask)
}

func (c *Controller) SetEncryptionID(e format.EncryptionID) {
	*c &^= encryptionMask << encryptionShift
	*c |= Controller(uint16(e)&encryptionMask) << encryptionShift
}

func (c Controller) Encrypted() bool { return c.EncryptionID() != format.EncryptionNone }
