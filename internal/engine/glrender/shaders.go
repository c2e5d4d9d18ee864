package glrender

const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec3 aColor;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;
uniform float uPointSize;

out vec3 vNormal;
out vec3 vColor;
out vec3 vViewDir;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vec4 view = uView * world;
	gl_Position = uProj * view;
	gl_PointSize = uPointSize / max(-view.z, 0.1);
	vNormal = mat3(transpose(inverse(uModel))) * aNormal;
	vColor = aColor;
	vViewDir = -(inverse(uView) * vec4(0.0, 0.0, -1.0, 0.0)).xyz;
}
`

const fragmentShader = `
#version 410 core

in vec3 vNormal;
in vec3 vColor;
in vec3 vViewDir;

uniform vec3 uColor;
uniform vec3 uEmissive;
uniform float uEmissiveIntensity;
uniform float uMetalness;
uniform float uRoughness;
uniform float uOpacity;
uniform bool uUnlit;
uniform bool uVertexColor;
uniform vec3 uAmbient;
uniform vec3 uSky;
uniform vec3 uGround;
uniform vec3 uLightDir;
uniform vec3 uLightColor;

out vec4 FragColor;

void main() {
	vec3 base = uVertexColor ? vColor * uColor : uColor;
	if (uUnlit) {
		FragColor = vec4(base, uOpacity);
		return;
	}

	vec3 n = normalize(vNormal);
	float diffuse = max(dot(n, uLightDir), 0.0);
	vec3 h = normalize(uLightDir + normalize(vViewDir));
	float shininess = mix(128.0, 4.0, clamp(uRoughness, 0.0, 1.0));
	float spec = pow(max(dot(n, h), 0.0), shininess) * (1.0 - uRoughness * 0.8);
	vec3 specColor = mix(vec3(0.04), base, uMetalness);

	vec3 ambient = uAmbient + mix(uGround, uSky, n.y * 0.5 + 0.5);
	vec3 lit = base * ambient + base * uLightColor * diffuse * (1.0 - uMetalness * 0.5) + uLightColor * specColor * spec;
	lit += uEmissive * uEmissiveIntensity;
	FragColor = vec4(lit, uOpacity);
}
`
