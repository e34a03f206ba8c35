// Package scene describes compositions in YAML or JSON and builds them.
//
// A scene lists the canvas size and the layers drawn back to front:
//
//	width: 1280
//	height: 720
//	layers:
//	  - type: web
//	    src: https://webglsamples.org/aquarium/aquarium.html
//	    want_input: true
//	  - type: image
//	    src: resource/overlay.png
//	  - type: web
//	    src: file:///opt/mixer/hud.html
//	    top: 0.95
//	    height: 0.05
//
// JSON is accepted as well, since every JSON document is valid YAML.
// Layer bounds are normalized; left and top default to 0, width and
// height to 1.
//
// Layer types are created by factories registered with Register. The
// "web" and "image" types are built in.
package scene
