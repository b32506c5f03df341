package pattern

// Generator defaults. Presets layer their own values over these.
var (
	racingDefaults = Params{"stripeColor": "#e31937", "stripeWidth": 40, "gap": 20, "offset": 0}

	diagonalDefaults = Params{
		"stripeColor": "#e31937", "bgColor": "#1a1a1a",
		"stripeWidth": 20, "gap": 40, "angle": 45,
	}

	gradientDefaults = Params{"colors": []string{"#e31937", "#ff6b6b", "#feca57"}, "angle": 0}

	lightningDefaults = Params{
		"color": "#e31937", "bgColor": "#1a1a1a",
		"zigzagWidth": 100, "zigzagHeight": 40,
	}

	triangleDefaults = Params{"colors": []string{"#2d3436", "#636e72", "#b2bec3"}, "size": 60}

	hexagonDefaults = Params{
		"hexSize": 30, "fillColor": "#1a1a1a",
		"strokeColor": "#e31937", "strokeWidth": 2,
	}

	carbonDefaults = Params{
		"cellSize": 10, "color1": "#1a1a1a",
		"color2": "#2d2d2d", "highlightColor": "#3a3a3a",
	}

	waveDefaults = Params{
		"waveColor": "#e31937", "bgColor": "transparent",
		"waveHeight": 30, "waveLength": 100, "waveCount": 5, "lineWidth": 4,
	}

	multiWaveDefaults = Params{
		"colors": []string{"#e31937", "#0984e3", "#f4d03f"}, "bgColor": "transparent",
		"waveHeight": 25, "waveLength": 80, "spacing": 150, "lineWidth": 4,
	}

	dotDefaults = Params{
		"dotColor": "#e31937", "bgColor": "#1a1a1a",
		"maxDotSize": 15, "minDotSize": 2, "spacing": 20, "direction": "horizontal",
	}

	camoDefaults = Params{"colors": []string{"#4a5d23", "#6b7c3f", "#8b9a5b", "#2d3a1a"}, "blobCount": 50}

	roundelDefaults = Params{
		"number": "7", "radius": 150, "ringWidth": 14,
		"ringColor": "#e31937", "discColor": "#ffffff", "textColor": "#1a1a1a",
		"bgColor": "transparent",
	}

	flameDefaults = Params{
		"colors": []string{"#e31937", "#ff9f43", "#feca57"}, "count": 8,
		"flameHeight": 320, "bgColor": "transparent",
	}

	starDefaults = Params{
		"count": 250, "seed": 7, "starColor": "#ffffff",
		"minSize": 0.5, "maxSize": 2.5, "bgColor": "#0b0c1a",
	}
)

func preset(id, category, name string, gen Generator, defaults, over Params) Recipe {
	return Recipe{ID: id, Category: category, Name: name, Defaults: defaults.Merge(over), Generate: gen}
}

func builtins() []Recipe {
	return []Recipe{
		preset("racing-stripes-red", "stripes", "Racing Stripes - Red", racingStripes, racingDefaults, nil),
		preset("racing-stripes-black", "stripes", "Racing Stripes - Black", racingStripes, racingDefaults,
			Params{"stripeColor": "#1a1a1a", "stripeWidth": 50, "gap": 30}),
		preset("racing-stripes-gold", "stripes", "Racing Stripes - Gold", racingStripes, racingDefaults,
			Params{"stripeColor": "#f4d03f", "stripeWidth": 35, "gap": 15}),
		preset("diagonal-red", "stripes", "Diagonal - Red/Black", diagonalStripes, diagonalDefaults, nil),
		preset("diagonal-white", "stripes", "Diagonal - White/Gray", diagonalStripes, diagonalDefaults,
			Params{"stripeColor": "#ffffff", "bgColor": "#4a4a4a", "stripeWidth": 15, "gap": 30}),
		preset("gradient-sunset", "gradient", "Gradient - Sunset", gradientStripes, gradientDefaults,
			Params{"colors": []string{"#e31937", "#ff6b6b", "#feca57", "#ff9f43"}}),
		preset("gradient-ocean", "gradient", "Gradient - Ocean", gradientStripes, gradientDefaults,
			Params{"colors": []string{"#0984e3", "#74b9ff", "#81ecec", "#00cec9"}}),
		preset("gradient-purple", "gradient", "Gradient - Purple Haze", gradientStripes, gradientDefaults,
			Params{"colors": []string{"#6c5ce7", "#a29bfe", "#fd79a8", "#e84393"}}),
		preset("gradient-dark", "gradient", "Gradient - Night", gradientStripes, gradientDefaults,
			Params{"colors": []string{"#2d3436", "#636e72", "#b2bec3"}}),
		preset("carbon-fiber", "texture", "Carbon Fiber", carbonFiber, carbonDefaults, nil),
		preset("carbon-fiber-red", "texture", "Carbon Fiber - Red", carbonFiber, carbonDefaults,
			Params{"color1": "#1a0a0a", "color2": "#3a1515", "highlightColor": "#5a2020"}),
		preset("hexagon-red", "geometric", "Honeycomb - Red", hexagons, hexagonDefaults, nil),
		preset("hexagon-blue", "geometric", "Honeycomb - Blue", hexagons, hexagonDefaults,
			Params{"strokeColor": "#0984e3"}),
		preset("hexagon-gold", "geometric", "Honeycomb - Gold", hexagons, hexagonDefaults,
			Params{"strokeColor": "#f4d03f", "hexSize": 25}),
		preset("triangles-dark", "geometric", "Triangles - Dark", triangles, triangleDefaults, nil),
		preset("triangles-colorful", "geometric", "Triangles - Colorful", triangles, triangleDefaults,
			Params{"colors": []string{"#e31937", "#0984e3", "#f4d03f", "#00b894"}}),
		preset("wave-red", "pattern", "Waves - Red", waves, waveDefaults, nil),
		preset("wave-multi", "pattern", "Waves - Multicolor", multiWave, multiWaveDefaults, nil),
		preset("dots-radial", "pattern", "Dots - Radial", dotGradient, dotDefaults,
			Params{"direction": "radial"}),
		preset("dots-horizontal", "pattern", "Dots - Horizontal", dotGradient, dotDefaults,
			Params{"dotColor": "#0984e3"}),
		preset("lightning-red", "stripes", "Lightning - Red", lightning, lightningDefaults, nil),
		preset("lightning-gold", "stripes", "Lightning - Gold", lightning, lightningDefaults,
			Params{"color": "#f4d03f", "bgColor": "#2d3436"}),
		preset("camo-military", "camo", "Camo - Woodland", camouflage, camoDefaults, nil),
		preset("camo-urban", "camo", "Camo - Urban", camouflage, camoDefaults,
			Params{"colors": []string{"#2d3436", "#636e72", "#b2bec3", "#1a1a1a"}}),
		preset("camo-desert", "camo", "Camo - Desert", camouflage, camoDefaults,
			Params{"colors": []string{"#d4a574", "#c4956a", "#b8860b", "#8b7355"}}),
		preset("number-roundel", "novelty", "Race Number Roundel", numberRoundel, roundelDefaults, nil),
		preset("flames", "novelty", "Flames", flames, flameDefaults, nil),
		preset("starfield", "novelty", "Starfield", starfield, starDefaults, nil),
	}
}
