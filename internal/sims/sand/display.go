package sand

// hotkeys maps the number row to materials: 1-6 are the classic palette,
// 7-0 expose the plant materials for hand-built scenes.
var hotkeys = map[rune]ID{
	'1': Seed,
	'2': Water,
	'3': Sand,
	'4': Soil,
	'5': Stone,
	'6': Gravel,
	'7': Mud,
	'8': Wood,
	'9': Plant,
	'0': Root,
}

// HotkeyMaterial resolves a number-row key to a material.
func HotkeyMaterial(key rune) (ID, bool) {
	id, ok := hotkeys[key]
	return id, ok
}
