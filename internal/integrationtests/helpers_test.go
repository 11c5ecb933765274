package integrationtests

// skift is a kernel, a library and two programs linked against it.
func skift() map[string]string {
	return map[string]string{
		"packages/kernel/manifest.json":   `{"id": "kernel", "type": "kernel"}`,
		"packages/kernel/sources/boot.s":  "boot;",
		"packages/kernel/sources/main.c":  "kmain;",
		"packages/libc/manifest.hcl":      "id = \"libc\"\ntype = \"lib\"\n",
		"packages/libc/sources/string.c":  "strlen;",
		"packages/libc/sources/stdio.c":   "printf;",
		"packages/shell/manifest.yaml":    "id: shell\ntype: app\ndependencies: [libc]\n",
		"packages/shell/sources/shell.c":  "shell;",
		"packages/echo/manifest.yml":      "id: echo\ntype: app\ndependencies: [libc]\n",
		"packages/echo/sources/echo.c":    "echo;",
		"packages/ps2/manifest.json":      `{"id": "ps2", "type": "module", "dependencies": ["kernel"]}`,
		"packages/ps2/sources/keyboard.c": "kbd;",
		"packages/docs/README.md":         "not a target",
		"packages/broken/manifest.json":   `{"type": "app"}`,
	}
}
