package glyph

import "sync"

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog of basic kanji.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := NewCatalog(seed)
		if err != nil {
			panic("glyph: invalid seed catalog: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

var seed = []Metadata{
	// Beginner
	{ID: "一", Pronunciation: "ichi / hito(tsu)", Meaning: "one", StrokeCount: 1, Tier: TierBeginner,
		Examples: []string{"一つ (hitotsu) one thing", "一月 (ichigatsu) January"}},
	{ID: "二", Pronunciation: "ni / futa(tsu)", Meaning: "two", StrokeCount: 2, Tier: TierBeginner,
		Examples: []string{"二つ (futatsu) two things", "二月 (nigatsu) February"}},
	{ID: "三", Pronunciation: "san / mit(tsu)", Meaning: "three", StrokeCount: 3, Tier: TierBeginner,
		Examples: []string{"三つ (mittsu) three things", "三月 (sangatsu) March"}},
	{ID: "人", Pronunciation: "jin, nin / hito", Meaning: "person", StrokeCount: 2, Tier: TierBeginner,
		Examples: []string{"日本人 (nihonjin) Japanese person", "人々 (hitobito) people"}},
	{ID: "大", Pronunciation: "dai, tai / oo(kii)", Meaning: "big", StrokeCount: 3, Tier: TierBeginner,
		Components: []string{"一", "人"}, Examples: []string{"大きい (ookii) big", "大学 (daigaku) university"}},
	{ID: "日", Pronunciation: "nichi, jitsu / hi, ka", Meaning: "sun, day", StrokeCount: 4, Tier: TierBeginner,
		Examples: []string{"日曜日 (nichiyoubi) Sunday", "毎日 (mainichi) every day"}},
	{ID: "月", Pronunciation: "getsu, gatsu / tsuki", Meaning: "moon, month", StrokeCount: 4, Tier: TierBeginner,
		Examples: []string{"月曜日 (getsuyoubi) Monday", "今月 (kongetsu) this month"}},
	{ID: "山", Pronunciation: "san / yama", Meaning: "mountain", StrokeCount: 3, Tier: TierBeginner,
		Examples: []string{"富士山 (fujisan) Mount Fuji", "山道 (yamamichi) mountain path"}},
	{ID: "川", Pronunciation: "sen / kawa", Meaning: "river", StrokeCount: 3, Tier: TierBeginner,
		Examples: []string{"川口 (kawaguchi) river mouth"}},
	{ID: "口", Pronunciation: "kou / kuchi", Meaning: "mouth", StrokeCount: 3, Tier: TierBeginner,
		Examples: []string{"入口 (iriguchi) entrance", "人口 (jinkou) population"}},

	// Elementary
	{ID: "水", Pronunciation: "sui / mizu", Meaning: "water", StrokeCount: 4, Tier: TierElementary,
		Examples: []string{"水曜日 (suiyoubi) Wednesday", "水道 (suidou) water supply"}},
	{ID: "火", Pronunciation: "ka / hi", Meaning: "fire", StrokeCount: 4, Tier: TierElementary,
		Examples: []string{"火曜日 (kayoubi) Tuesday", "花火 (hanabi) fireworks"}},
	{ID: "木", Pronunciation: "moku, boku / ki", Meaning: "tree, wood", StrokeCount: 4, Tier: TierElementary,
		Examples: []string{"木曜日 (mokuyoubi) Thursday", "木村 (kimura) Kimura"}},
	{ID: "土", Pronunciation: "do, to / tsuchi", Meaning: "earth, soil", StrokeCount: 3, Tier: TierElementary,
		Examples: []string{"土曜日 (doyoubi) Saturday"}},
	{ID: "目", Pronunciation: "moku / me", Meaning: "eye", StrokeCount: 5, Tier: TierElementary,
		Examples: []string{"目的 (mokuteki) purpose", "一つ目 (hitotsume) the first"}},
	{ID: "手", Pronunciation: "shu / te", Meaning: "hand", StrokeCount: 4, Tier: TierElementary,
		Examples: []string{"上手 (jouzu) skillful", "手紙 (tegami) letter"}},
	{ID: "力", Pronunciation: "ryoku, riki / chikara", Meaning: "power", StrokeCount: 2, Tier: TierElementary,
		Examples: []string{"力持ち (chikaramochi) strong person"}},
	{ID: "上", Pronunciation: "jou / ue, a(geru)", Meaning: "up, above", StrokeCount: 3, Tier: TierElementary,
		Examples: []string{"上手 (jouzu) skillful", "上がる (agaru) to rise"}},
	{ID: "下", Pronunciation: "ka, ge / shita, sa(geru)", Meaning: "down, below", StrokeCount: 3, Tier: TierElementary,
		Examples: []string{"地下鉄 (chikatetsu) subway", "下手 (heta) unskillful"}},
	{ID: "小", Pronunciation: "shou / chii(sai), ko", Meaning: "small", StrokeCount: 3, Tier: TierElementary,
		Examples: []string{"小さい (chiisai) small", "小学校 (shougakkou) elementary school"}},

	// Intermediate
	{ID: "中", Pronunciation: "chuu / naka", Meaning: "middle, inside", StrokeCount: 4, Tier: TierIntermediate,
		Components: []string{"口"}, Examples: []string{"中国 (chuugoku) China", "中学 (chuugaku) junior high"}},
	{ID: "子", Pronunciation: "shi, su / ko", Meaning: "child", StrokeCount: 3, Tier: TierIntermediate,
		Examples: []string{"子供 (kodomo) child", "様子 (yousu) appearance"}},
	{ID: "女", Pronunciation: "jo, nyo / onna", Meaning: "woman", StrokeCount: 3, Tier: TierIntermediate,
		Examples: []string{"女の子 (onnanoko) girl", "彼女 (kanojo) she"}},
	{ID: "本", Pronunciation: "hon / moto", Meaning: "book, origin", StrokeCount: 5, Tier: TierIntermediate,
		Components: []string{"木", "一"}, Examples: []string{"日本 (nihon) Japan", "本屋 (hon'ya) bookstore"}},
	{ID: "生", Pronunciation: "sei, shou / i(kiru), u(mareru)", Meaning: "life, birth", StrokeCount: 5, Tier: TierIntermediate,
		Examples: []string{"先生 (sensei) teacher", "学生 (gakusei) student"}},

	// Advanced
	{ID: "先", Pronunciation: "sen / saki", Meaning: "ahead, previous", StrokeCount: 6, Tier: TierAdvanced,
		Examples: []string{"先生 (sensei) teacher", "先月 (sengetsu) last month"}},
	{ID: "年", Pronunciation: "nen / toshi", Meaning: "year", StrokeCount: 6, Tier: TierAdvanced,
		Examples: []string{"今年 (kotoshi) this year", "年齢 (nenrei) age"}},
	{ID: "金", Pronunciation: "kin, kon / kane", Meaning: "gold, money", StrokeCount: 8, Tier: TierAdvanced,
		Examples: []string{"金曜日 (kinyoubi) Friday", "お金 (okane) money"}},
	{ID: "学", Pronunciation: "gaku / mana(bu)", Meaning: "study, learning", StrokeCount: 8, Tier: TierAdvanced,
		Components: []string{"子"}, Examples: []string{"学校 (gakkou) school", "大学 (daigaku) university"}},
}
