package main

import "github.com/nvr-ai/yolo-viewer/cmd"

func main() {
	cmd.Execute()
}
