package native

const (
	FALSE = 0
	TRUE  = 1

	// Texture targets and their binding queries.
	TEXTURE_1D         = 0x0de0
	TEXTURE_2D         = 0x0de1
	TEXTURE_3D         = 0x806f
	TEXTURE_BINDING_1D = 0x8068
	TEXTURE_BINDING_2D = 0x8069
	TEXTURE_BINDING_3D = 0x806a
	TEXTURE0           = 0x84c0

	// Texture parameters.
	TEXTURE_MAG_FILTER     = 0x2800
	TEXTURE_MIN_FILTER     = 0x2801
	TEXTURE_WRAP_S         = 0x2802
	TEXTURE_WRAP_T         = 0x2803
	TEXTURE_WRAP_R         = 0x8072
	NEAREST                = 0x2600
	LINEAR                 = 0x2601
	NEAREST_MIPMAP_NEAREST = 0x2700
	LINEAR_MIPMAP_NEAREST  = 0x2701
	NEAREST_MIPMAP_LINEAR  = 0x2702
	LINEAR_MIPMAP_LINEAR   = 0x2703
	REPEAT                 = 0x2901
	CLAMP_TO_EDGE          = 0x812f
	MIRRORED_REPEAT        = 0x8370

	UNPACK_ALIGNMENT = 0x0cf5

	// Pixel formats.
	DEPTH_COMPONENT = 0x1902
	RED             = 0x1903
	RG              = 0x8227
	RGB             = 0x1907
	RGBA            = 0x1908
	BGR             = 0x80e0
	BGRA            = 0x80e1
	RED_INTEGER     = 0x8d94
	RG_INTEGER      = 0x8228
	RGB_INTEGER     = 0x8d98
	RGBA_INTEGER    = 0x8d99
	BGR_INTEGER     = 0x8d9a
	BGRA_INTEGER    = 0x8d9b
	DEPTH_STENCIL   = 0x84f9

	// Sized internal formats.
	R8                = 0x8229
	RG8               = 0x822b
	RGB8              = 0x8051
	RGBA8             = 0x8058
	DEPTH_COMPONENT24 = 0x81a6
	DEPTH24_STENCIL8  = 0x88f0

	// Component types.
	BYTE           = 0x1400
	UNSIGNED_BYTE  = 0x1401
	SHORT          = 0x1402
	UNSIGNED_SHORT = 0x1403
	INT            = 0x1404
	UNSIGNED_INT   = 0x1405
	FLOAT          = 0x1406
	HALF_FLOAT     = 0x140b
	DOUBLE         = 0x140a

	// Uniform and attribute types.
	FLOAT_VEC2 = 0x8b50
	FLOAT_VEC3 = 0x8b51
	FLOAT_VEC4 = 0x8b52
	INT_VEC2   = 0x8b53
	INT_VEC3   = 0x8b54
	INT_VEC4   = 0x8b55
	BOOL       = 0x8b56
	FLOAT_MAT2 = 0x8b5a
	FLOAT_MAT3 = 0x8b5b
	FLOAT_MAT4 = 0x8b5c
	SAMPLER_1D = 0x8b5d
	SAMPLER_2D = 0x8b5e
	SAMPLER_3D = 0x8b5f

	// Framebuffers and renderbuffers.
	FRAMEBUFFER              = 0x8d40
	READ_FRAMEBUFFER         = 0x8ca8
	DRAW_FRAMEBUFFER         = 0x8ca9
	FRAMEBUFFER_BINDING      = 0x8ca6
	READ_FRAMEBUFFER_BINDING = 0x8caa
	FRAMEBUFFER_COMPLETE     = 0x8cd5
	COLOR_ATTACHMENT0        = 0x8ce0
	DEPTH_ATTACHMENT         = 0x8d00
	STENCIL_ATTACHMENT       = 0x8d20
	DEPTH_STENCIL_ATTACHMENT = 0x821a
	RENDERBUFFER             = 0x8d41
	RENDERBUFFER_BINDING     = 0x8ca7

	// Shaders and programs.
	FRAGMENT_SHADER             = 0x8b30
	VERTEX_SHADER               = 0x8b31
	GEOMETRY_SHADER             = 0x8dd9
	COMPILE_STATUS              = 0x8b81
	LINK_STATUS                 = 0x8b82
	INFO_LOG_LENGTH             = 0x8b84
	ACTIVE_UNIFORMS             = 0x8b86
	ACTIVE_UNIFORM_MAX_LENGTH   = 0x8b87
	ACTIVE_ATTRIBUTES           = 0x8b89
	ACTIVE_ATTRIBUTE_MAX_LENGTH = 0x8b8a

	// Buffers.
	ARRAY_BUFFER = 0x8892
	STREAM_DRAW  = 0x88e0
	STATIC_DRAW  = 0x88e4
	DYNAMIC_DRAW = 0x88e8

	// Primitives.
	POINTS         = 0x0000
	LINES          = 0x0001
	LINE_STRIP     = 0x0003
	TRIANGLES      = 0x0004
	TRIANGLE_STRIP = 0x0005
	TRIANGLE_FAN   = 0x0006
)

// BindingFor returns the binding query for a bind target, and false if the
// target has no known query.
func BindingFor(target Enum) (Enum, bool) {
	switch target {
	case TEXTURE_1D:
		return TEXTURE_BINDING_1D, true
	case TEXTURE_2D:
		return TEXTURE_BINDING_2D, true
	case TEXTURE_3D:
		return TEXTURE_BINDING_3D, true
	case FRAMEBUFFER, DRAW_FRAMEBUFFER:
		return FRAMEBUFFER_BINDING, true
	case READ_FRAMEBUFFER:
		return READ_FRAMEBUFFER_BINDING, true
	case RENDERBUFFER:
		return RENDERBUFFER_BINDING, true
	default:
		return 0, false
	}
}

// Components returns the number of components per pixel of a pixel format.
func Components(format Enum) int {
	switch format {
	case RED, RED_INTEGER, DEPTH_COMPONENT:
		return 1
	case RG, RG_INTEGER, DEPTH_STENCIL:
		return 2
	case RGB, BGR, RGB_INTEGER, BGR_INTEGER:
		return 3
	case RGBA, BGRA, RGBA_INTEGER, BGRA_INTEGER:
		return 4
	default:
		return 0
	}
}

// TypeSize returns the size in bytes of a component type.
func TypeSize(ty Enum) int {
	switch ty {
	case BYTE, UNSIGNED_BYTE:
		return 1
	case SHORT, UNSIGNED_SHORT, HALF_FLOAT:
		return 2
	case INT, UNSIGNED_INT, FLOAT:
		return 4
	case DOUBLE:
		return 8
	default:
		return 0
	}
}
