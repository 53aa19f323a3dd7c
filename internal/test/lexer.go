package test

import (
	"math/rand"
	"strings"
)

const validTokens = "enchant_func;main;(;);crafting_table;end_portal;chest;->;=;redstone_if;slime_else;piston_loop;nether_return;print;torch_on;torch_off;redstone;emerald;obsidian;nether;ender;void;\"this is a string\";\"this is a longer string mined out of the overworld: cobblestone, granite, diorite, andesite, deepslate, tuff, calcite, dripstone, coal, iron, copper, gold, lapis, redstone, emerald and diamond ore, all the way down to the bedrock floor.\";\"this is a small string\";\"\";+;-;*;/;==;!=;<;>;<=;>=;&&;||;,;:;123;321;4.5;0.25;steve;alex;creeper_count;//comment\n;\n"

// GetRandomTokens returns size valid MineCode tokens separated by spaces.
func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}
