package badges

type seasonRule struct {
	name string
	fn   func(*seasonCtx, *emitter)
}

type careerRule struct {
	name string
	fn   func(*engine, []*seasonCtx, *emitter)
}

var seasonRules = []seasonRule{
	{"season-title", seasonTitle},
	{"points-title", pointsTitles},
	{"all-play-title", allPlayTitle},
	{"triple-crown", tripleCrown},
	{"playoff-finish", playoffFinish},
	{"dpr-tier", dprTier},
	{"luck", luck},
	{"peak-performance", peakPerformance},
	{"shootout", shootout},
	{"massacre", massacre},
	{"close-margins", closeMargins},
	{"double-up", doubleUp},
	{"score-share", scoreShare},
	{"thread-the-needle", threadTheNeedle},
	{"snoozer", snoozer},
	{"spoiled-goods", spoiledGoods},
	{"bully", bully},
	{"heavyweight-champion", heavyweightChampion},
	{"comeback-kid", comebackKid},
	{"against-all-odds", againstAllOdds},
	{"draft-king", draftKing},
	{"draft-picks", draftPicks},
	{"position-drafters", positionDrafters},
	{"top-roster", topRoster},
	{"action-king", actionKing},
	{"broke-ass", brokeAss},
	{"silverback", silverbackToBack},
}

var careerRules = []careerRule{
	{"champion-drought", championDrought},
	{"total-wins", totalWins},
	{"tenure", tenure},
}
