package app

// Vertex shader. Applies the Transform global to the quad's corners and
// forwards the texture coordinates to the fragment shader.
const vertexShaderSource = `
#version 330 core
in vec2 position;
in vec2 texcoord;

uniform mat4 Transform;

out vec2 uv;

void main() {
    gl_Position = Transform * vec4(position, 0.0, 1.0);
    uv = texcoord;
}
`

// Fragment shader. Samples the streamed texture, pulsing towards the Tint
// global over Time.
const fragmentShaderSource = `
#version 330 core
in vec2 uv;

uniform sampler2D image;
uniform vec4 Tint;
uniform float Time;

out vec4 FragColor;

void main() {
    vec4 texel = texture(image, uv);
    float pulse = 0.15 * (0.5 + 0.5 * sin(Time));
    FragColor = mix(texel, vec4(Tint.rgb, 1.0), pulse * Tint.a);
}
`
