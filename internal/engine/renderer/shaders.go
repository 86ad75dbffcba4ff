package renderer

const litVertex = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;
uniform mat4 uLightVP;
uniform float uNormalBias;

out vec3 vWorld;
out vec3 vNormal;
out vec4 vLightPos;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vWorld = world.xyz;
	vNormal = normalize(transpose(inverse(mat3(uModel))) * aNormal);
	vLightPos = uLightVP * vec4(world.xyz + vNormal * uNormalBias, 1.0);
	gl_Position = uProj * uView * world;
}
`

const litFragment = `
#version 410 core

in vec3 vWorld;
in vec3 vNormal;
in vec4 vLightPos;

uniform vec3 uColor;
uniform float uOpacity;
uniform float uRoughness;
uniform float uMetalness;
uniform float uEnvIntensity;
uniform float uClearcoat;
uniform float uSpecular;

uniform vec3 uEye;
uniform vec3 uSunDir;
uniform vec3 uSunColor;
uniform float uSunIntensity;
uniform vec3 uAmbientColor;
uniform float uAmbientIntensity;

uniform sampler2D uEnvMap;
uniform int uHasEnv;

uniform vec3 uFogColor;
uniform float uFogDensity;

uniform sampler2DShadow uShadowMap;
uniform int uHasShadow;
uniform int uReceiveShadow;
uniform float uShadowBias;
uniform float uShadowIntensity;

out vec4 FragColor;

const float PI = 3.14159265;

vec3 sampleEnv(vec3 dir) {
	vec2 uv = vec2(atan(dir.z, dir.x) / (2.0 * PI) + 0.5, asin(clamp(dir.y, -1.0, 1.0)) / PI + 0.5);
	return texture(uEnvMap, uv).rgb;
}

// shadowFactor is 1 when lit and 1 - intensity in full shadow, with a
// 3x3 PCF kernel softening the edge.
float shadowFactor() {
	if (uHasShadow == 0 || uReceiveShadow == 0 || uShadowIntensity <= 0.0) {
		return 1.0;
	}
	vec3 p = vLightPos.xyz / vLightPos.w * 0.5 + 0.5;
	if (p.z > 1.0) {
		return 1.0;
	}
	vec2 texel = 1.0 / vec2(textureSize(uShadowMap, 0));
	float lit = 0.0;
	for (int x = -1; x <= 1; x++) {
		for (int y = -1; y <= 1; y++) {
			lit += texture(uShadowMap, vec3(p.xy + vec2(x, y) * texel, p.z + uShadowBias));
		}
	}
	return mix(1.0, lit / 9.0, uShadowIntensity);
}

void main() {
	vec3 n = normalize(vNormal);
	vec3 v = normalize(uEye - vWorld);
	vec3 l = normalize(-uSunDir);
	vec3 h = normalize(l + v);

	float ndl = max(dot(n, l), 0.0);
	float shadow = shadowFactor();
	vec3 sun = uSunColor * uSunIntensity * ndl * shadow;
	vec3 ambient = uAmbientColor * uAmbientIntensity;

	vec3 diffuse = uColor * (1.0 - uMetalness) * (ambient + sun);

	float shininess = mix(256.0, 4.0, uRoughness);
	vec3 f0 = mix(vec3(0.04), uColor, uMetalness);
	vec3 spec = f0 * uSunColor * uSunIntensity * pow(max(dot(n, h), 0.0), shininess) * ndl * shadow;
	spec *= mix(1.0, uSpecular, step(0.001, uSpecular));

	vec3 env = ambient;
	if (uHasEnv == 1) {
		env = sampleEnv(reflect(-v, n));
	}
	float gloss = 1.0 - 0.7 * uRoughness;
	vec3 reflection = env * f0 * uEnvIntensity * gloss;
	reflection += env * 0.04 * uClearcoat * uEnvIntensity;

	vec3 color = diffuse + spec + reflection;

	if (uFogDensity > 0.0) {
		float dist = length(uEye - vWorld);
		float f = 1.0 - exp(-(dist * uFogDensity) * (dist * uFogDensity));
		color = mix(color, uFogColor, clamp(f, 0.0, 1.0));
	}

	FragColor = vec4(color, uOpacity);
}
`

// The depth pass only writes depth from the sun's point of view.
const depthVertex = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uModel;
uniform mat4 uLightVP;

void main() {
	gl_Position = uLightVP * uModel * vec4(aPos, 1.0);
}
`

const depthFragment = `
#version 410 core

void main() {
}
`

const lineVertex = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uView;
uniform mat4 uProj;

out vec3 vWorld;

void main() {
	vWorld = aPos;
	gl_Position = uProj * uView * vec4(aPos, 1.0);
}
`

const lineFragment = `
#version 410 core

in vec3 vWorld;

uniform vec3 uColor;
uniform float uOpacity;
uniform vec3 uEye;
uniform vec3 uFogColor;
uniform float uFogDensity;

out vec4 FragColor;

void main() {
	vec3 color = uColor;
	if (uFogDensity > 0.0) {
		float dist = length(uEye - vWorld);
		float f = 1.0 - exp(-(dist * uFogDensity) * (dist * uFogDensity));
		color = mix(color, uFogColor, clamp(f, 0.0, 1.0));
	}
	FragColor = vec4(color, uOpacity);
}
`

// The composite pass draws one oversized triangle generated from the
// vertex ID.
const compositeVertex = `
#version 410 core

out vec2 vUV;

void main() {
	vec2 pos = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2);
	vUV = pos;
	gl_Position = vec4(pos * 2.0 - 1.0, 0.0, 1.0);
}
`

const compositeFragment = `
#version 410 core

in vec2 vUV;

uniform sampler2D uScene;
uniform int uBloom;
uniform float uStrength;
uniform float uRadius;
uniform float uThreshold;

out vec4 FragColor;

vec3 bright(vec2 uv) {
	vec3 c = texture(uScene, uv).rgb;
	float lum = dot(c, vec3(0.2126, 0.7152, 0.0722));
	return c * max(lum - uThreshold, 0.0) / max(lum, 0.0001);
}

void main() {
	vec3 color = texture(uScene, vUV).rgb;

	if (uBloom == 1 && uStrength > 0.0) {
		vec2 texel = 1.0 / vec2(textureSize(uScene, 0));
		float spread = 1.0 + uRadius * 8.0;
		vec3 glow = vec3(0.0);
		float total = 0.0;
		for (int x = -4; x <= 4; x++) {
			for (int y = -4; y <= 4; y++) {
				float w = exp(-float(x * x + y * y) / 8.0);
				glow += bright(vUV + vec2(x, y) * texel * spread) * w;
				total += w;
			}
		}
		color += glow / total * uStrength;
	}

	FragColor = vec4(clamp(color, 0.0, 1.0), 1.0);
}
`
