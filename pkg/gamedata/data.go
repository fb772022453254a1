package gamedata

// Game tuning constants.
const (
	MaxMonths       = 36
	MaxActionPoints = 6
	InitialMoney    = 100
	MonthlyExpense  = 30
)

// ItemAuntNote is the marker item seeded at game start.
const ItemAuntNote = "aunt-note"

// EventAuntTruth is the narrative milestone required by the true ending.
const EventAuntTruth = "aunt-truth"

// Periods is the fixed daily cycle; advancing past the last entry
// wraps into a new month.
var Periods = []TimePeriod{
	{Index: 0, Name: "清晨", Icon: "🌅", Hours: "06:00-08:59"},
	{Index: 1, Name: "上午", Icon: "☀️", Hours: "09:00-11:59"},
	{Index: 2, Name: "中午", Icon: "🌞", Hours: "12:00-13:59"},
	{Index: 3, Name: "下午", Icon: "⛅", Hours: "14:00-16:59"},
	{Index: 4, Name: "傍晚", Icon: "🌇", Hours: "17:00-19:59"},
	{Index: 5, Name: "深夜", Icon: "🌙", Hours: "20:00-05:59"},
}

// QuickActions are the fallback choices when the model returns none
// and no character is active.
var QuickActions = []string{"安排训练", "团队建设", "制定计划", "私下谈心"}

// InitialScenes are unlocked from the start.
var InitialScenes = []string{"practice", "meeting", "lounge", "studio"}

// StoryInfo is the lore header embedded in every prompt.
var StoryInfo = struct {
	Genre       string
	Title       string
	Subtitle    string
	Description string
	Goals       []string
}{
	Genre:    "K-pop 养成",
	Title:    "首尔星梦事务所",
	Subtitle: "Seoul Star Dream Agency · K-pop 养成冒险",
	Description: "一通深夜来电打破了你平静的生活——" +
		"姑姑经营的练习生事务所濒临倒闭，而她本人不知去向。" +
		"你赶到首尔，推开那间小事务所的门，" +
		"三个怀揣梦想的年轻人正等着一个答案：这个事务所，还能继续吗？",
	Goals: []string{
		"在 36 个月内培养 3 位练习生成功出道",
		"维持事务所的资金运转不破产",
		"赢得每位练习生的信任和成长",
		"应对对手 NOVA Ent. 的竞争和危机",
	},
}

// traineeStatMetas is shared by the three playable trainees. Stress
// creeps up every month unless managed.
var traineeStatMetas = []StatMeta{
	{Key: "trust", Label: "信任", Color: "#e91e8c", Icon: "💕", Category: CategoryRelation},
	{Key: "dependency", Label: "依赖", Color: "#ff6b9d", Icon: "🤝", Category: CategoryRelation},
	{Key: "mood", Label: "心情", Color: "#ffd700", Icon: "😊", Category: CategoryStatus},
	{Key: "health", Label: "健康", Color: "#00d4ff", Icon: "💪", Category: CategoryStatus},
	{Key: "stress", Label: "压力", Color: "#9333ea", Icon: "😰", Category: CategoryStatus, AutoIncrement: 2},
	{Key: "dance", Label: "舞蹈", Color: "#f97316", Icon: "💃", Category: CategorySkill},
	{Key: "singing", Label: "歌唱", Color: "#10b981", Icon: "🎤", Category: CategorySkill},
	{Key: "variety", Label: "综艺感", Color: "#f59e0b", Icon: "🎭", Category: CategorySkill},
	{Key: "popularity", Label: "人气", Color: "#ec4899", Icon: "⭐", Category: CategorySkill},
}

// CharacterOrder fixes iteration order for prompt output and for the
// first-match tie-break on ambiguous stat labels.
var CharacterOrder = []string{"minsu", "jiyeon", "seonghoon", "arin"}

var characters = map[string]Character{
	"minsu": {
		ID:            "minsu",
		Name:          "金敏秀",
		Gender:        "male",
		Age:           19,
		Title:         "练习生·主唱",
		Description:   "从小城镇来首尔追梦的少年，歌唱天赋惊人但性格内向敏感。曾在学校被欺凌，极度缺乏自信，害怕舞台。你是他第一个真正信任的人。",
		Personality:   "内向敏感 | 天赋极高 + 缺乏自信 + 完美主义",
		SpeakingStyle: "声音柔和，常用省略号，紧张时结巴，唱歌时却判若两人",
		Secret:        "离家出走来的首尔，家人反对他当艺人。曾患过恐慌症，现在舞台恐惧是后遗症",
		TriggerPoints: []string{
			"提及\"回家\"或\"放弃\"",
			"被批评唱功",
			"被迫在陌生人面前表演",
		},
		BehaviorPatterns: "信任<30沉默回避，30-60逐渐敞开心扉，>60会主动找你倾诉",
		ThemeColor:       "#3b82f6",
		JoinMonth:        1,
		IsTrainee:        true,
		StatMetas:        traineeStatMetas,
		InitialStats: CharacterStats{
			"trust": 50, "dependency": 30, "mood": 60, "health": 80,
			"stress": 20, "dance": 30, "singing": 70, "variety": 20, "popularity": 15,
		},
	},
	"jiyeon": {
		ID:            "jiyeon",
		Name:          "朴智妍",
		Gender:        "female",
		Age:           18,
		Title:         "练习生·主舞",
		Description:   "从大型经纪公司被淘汰的练习生，舞蹈实力顶级但曾遭受职场霸凌。外表冷酷倔强，内心渴望被认可。对\"事务所\"这个词有创伤反应。",
		Personality:   "倔强好胜 | 外冷内热 + 创伤后应激 + 不信任权威",
		SpeakingStyle: "简短直接，常用反问，嘴硬心软，生气时语速极快",
		Secret:        "在前公司被前辈霸凌导致膝盖受伤，现在高强度舞蹈后会疼。一直隐瞒伤势",
		TriggerPoints: []string{
			"提及\"前公司\"或\"被淘汰\"",
			"被强制做不想做的事",
			"发现她的膝伤秘密",
		},
		BehaviorPatterns: "信任<30充满敌意测试你，30-60表面配合暗中观察，>60真正接纳成为核心",
		ThemeColor:       "#ec4899",
		JoinMonth:        1,
		IsTrainee:        true,
		StatMetas:        traineeStatMetas,
		InitialStats: CharacterStats{
			"trust": 35, "dependency": 15, "mood": 45, "health": 65,
			"stress": 40, "dance": 75, "singing": 35, "variety": 40, "popularity": 25,
		},
	},
	"seonghoon": {
		ID:            "seonghoon",
		Name:          "崔成勋",
		Gender:        "male",
		Age:           20,
		Title:         "练习生·综艺",
		Description:   "富二代出身却执意要当艺人的阳光大男孩，综艺感天生但唱跳都是短板。父亲给了他36个月期限——出道失败就回家继承公司。",
		Personality:   "乐观开朗 | 综艺天才 + 隐藏压力 + 不想被当少爷",
		SpeakingStyle: "活泼话多，爱用网络流行语，搞笑段子信手拈来，认真时反差萌",
		Secret:        "父亲是韩国某财阀分支。36个月期限不是空话，父亲已安排好接班计划。私下偷偷加练到凌晨",
		TriggerPoints: []string{
			"提及\"有钱人\"或\"少爷\"",
			"质疑他的认真程度",
			"发现他深夜独自练习",
		},
		BehaviorPatterns: "信任<30嘻嘻哈哈遮掩真心，30-60展现认真的一面，>60分享家庭压力和真实恐惧",
		ThemeColor:       "#fbbf24",
		JoinMonth:        1,
		IsTrainee:        true,
		StatMetas:        traineeStatMetas,
		InitialStats: CharacterStats{
			"trust": 60, "dependency": 40, "mood": 85, "health": 90,
			"stress": 15, "dance": 25, "singing": 30, "variety": 80, "popularity": 45,
		},
	},
	"arin": {
		ID:            "arin",
		Name:          "姜雅琳",
		Gender:        "female",
		Age:           19,
		Title:         "NOVA Ent. 王牌练习生",
		Description:   "对手大公司的绝对王牌，实力颜值兼具的完美练习生。表面高傲冷漠，实际是被公司当作武器培养、失去自我的可怜人。",
		Personality:   "高傲冷漠 | 完美主义 + 内心空虚 + 渴望真正的友情",
		SpeakingStyle: "冷淡礼貌，敬语为主，偶尔露出真性情时语气会突然变软",
		Secret:        "其实厌倦了被公司操控的生活。曾偷偷观看你们事务所的公演视频，羡慕那种真实的快乐",
		TriggerPoints: []string{
			"嘲笑小事务所",
			"展现真诚态度",
			"在她面前承认弱点",
		},
		BehaviorPatterns: "态度<30完全敌对蔑视，30-60好奇但保持距离，>60暗中帮助甚至考虑跳槽",
		ThemeColor:       "#6b7280",
		JoinMonth:        1,
		IsTrainee:        false,
		StatMetas: []StatMeta{
			{Key: "attitude", Label: "态度", Color: "#6b7280", Icon: "💎", Category: CategoryRelation},
		},
		InitialStats: CharacterStats{"attitude": 40},
	},
}

// Scenes keyed by id; all four are unlocked from the start.
var Scenes = map[string]Scene{
	"practice": {
		ID:          "practice",
		Name:        "练习室",
		Icon:        "🎵",
		Description: "铺着镜面的宽敞练习室，音响设备一应俱全。汗水和梦想交织的地方，每一面镜子都映射着练习生的努力。",
		Atmosphere:  "热血、汗水、努力",
		Tags:        []string{"训练", "舞蹈", "歌唱"},
	},
	"meeting": {
		ID:          "meeting",
		Name:        "会议室",
		Icon:        "📋",
		Description: "事务所的决策中心，白板上贴满了训练计划和出道时间表。姑姑留下的笔记还散落在桌上。",
		Atmosphere:  "严肃、决策、规划",
		Tags:        []string{"管理", "策划", "商务"},
	},
	"lounge": {
		ID:          "lounge",
		Name:        "休息室",
		Icon:        "🛋️",
		Description: "温馨的小休息室，有沙发、零食柜和一台老旧电视。练习生们在这里放松、聊天、偶尔吵架又和好。",
		Atmosphere:  "温馨、放松、日常",
		Tags:        []string{"休息", "社交", "治愈"},
	},
	"studio": {
		ID:          "studio",
		Name:        "录音室",
		Icon:        "🎙️",
		Description: "隔音良好的专业录音室，虽然设备老旧但保养得很好。墙上贴着姑姑曾经制作人时代的金唱片。",
		Atmosphere:  "专注、创作、灵感",
		Tags:        []string{"录音", "创作", "专业"},
	},
}

// Items keyed by id.
var Items = map[string]Item{
	"aunt-note": {
		ID:          "aunt-note",
		Name:        "姑姑的笔记",
		Icon:        "📝",
		Type:        ItemQuest,
		Description: "姑姑留下的经营笔记，记录着事务所的历史和她对练习生们的期望。字迹潦草但充满感情。",
		MaxCount:    1,
	},
	"training-gear": {
		ID:          "training-gear",
		Name:        "专业训练设备",
		Icon:        "🎧",
		Type:        ItemUpgrade,
		Description: "高品质训练设备套装，能显著提升训练效果。需要 50 万韩元购入。",
		MaxCount:    1,
		Cost:        50,
	},
	"debut-invitation": {
		ID:          "debut-invitation",
		Name:        "出道舞台邀请函",
		Icon:        "💌",
		Type:        ItemQuest,
		Description: "电视台发来的出道舞台邀请函。这是你们梦寐以求的机会，但准备时间只有一个月。",
		MaxCount:    1,
	},
	"comfort": {
		ID:          "comfort",
		Name:        "安慰鼓励",
		Icon:        "🫂",
		Type:        ItemSocial,
		Description: "温暖的话语和拥抱，能有效缓解练习生的压力和负面情绪。",
		MaxCount:    99,
	},
	"encourage": {
		ID:          "encourage",
		Name:        "激励训话",
		Icon:        "🔥",
		Type:        ItemSocial,
		Description: "热血沸腾的激励演讲，能激发练习生的斗志和训练热情。",
		MaxCount:    99,
	},
	"strict": {
		ID:          "strict",
		Name:        "严格管教",
		Icon:        "📏",
		Type:        ItemSocial,
		Description: "严厉但公正的批评指导。短期压力增加但长期技能提升更快。",
		MaxCount:    99,
	},
}

// Chapters cover months 1..MaxMonths contiguously.
var Chapters = []Chapter{
	{
		ID: 1, Name: "破晓时分", MonthStart: 1, MonthEnd: 6,
		Description: "姑姑突然消失，留下一间濒临倒闭的事务所和三个性格各异的练习生。你必须在混乱中建立秩序。",
		Objectives:  []string{"了解每位练习生的性格和需求", "制定基础训练计划", "维持事务所不破产"},
		Atmosphere:  "迷茫中带着希望",
	},
	{
		ID: 2, Name: "星光初现", MonthStart: 7, MonthEnd: 18,
		Description: "练习生们开始展露光芒，但竞争对手 NOVA Ent. 虎视眈眈。内部矛盾和外部压力交织，考验你的管理智慧。",
		Objectives:  []string{"提升练习生综合实力", "应对 NOVA 的挖角和打压", "策划第一次公演"},
		Atmosphere:  "紧张、成长、竞争",
	},
	{
		ID: 3, Name: "璀璨之夜", MonthStart: 19, MonthEnd: 36,
		Description: "出道之路进入最后冲刺。练习生们必须面对最终选拔的残酷考验，而你必须做出影响所有人命运的抉择。",
		Objectives:  []string{"完成出道准备", "处理每位练习生的个人危机", "在出道舞台上绽放"},
		Atmosphere:  "悲壮、希望、绽放",
	},
}

// ForcedEvents fire once each when their month (and period, if not -1)
// is reached.
var ForcedEvents = []ForcedEvent{
	{
		ID: "recruit", Name: "接管事务所", TriggerMonth: 1, TriggerPeriod: 0,
		Description: "你推开事务所的门，三双眼睛望向你——金敏秀紧张地低头，朴智妍冷冷地打量你，崔成勋笑着递上咖啡。姑姑的办公桌上放着一封信。",
	},
	{
		ID: "first-show", Name: "首次公演", TriggerMonth: 6, TriggerPeriod: -1,
		Description: "事务所的首次公开表演来了。虽然只是商场小舞台，但对练习生们来说意义非凡。准备得怎么样了？",
	},
	{
		ID: "poach-attempt", Name: "NOVA 的挖角", TriggerMonth: 10, TriggerPeriod: 2,
		Description: "NOVA Ent. 的制作人直接来到你的事务所，当着你的面向练习生们抛出橄榄枝。姜雅琳站在他身后，表情复杂。",
	},
	{
		ID: "scandal-crisis", Name: "丑闻危机", TriggerMonth: 15, TriggerPeriod: -1,
		Description: "网上突然出现针对你事务所练习生的恶意爆料。真假参半的信息疯狂传播，事务所的名声岌岌可危。",
	},
	{
		ID: "debut-stage", Name: "出道舞台", TriggerMonth: 36, TriggerPeriod: 3,
		Description: "最终时刻到来。聚光灯亮起，镜头对准舞台中央。三位练习生站在出道舞台上，你在后台屏住呼吸...",
	},
}

// Endings in evaluation-independent display order.
var Endings = []Ending{
	{
		ID: "te-legacy", Name: "星光传承", Type: EndingTrue,
		Description: "三位练习生不仅成功出道，更成为引领新时代的偶像。姑姑回来了，看着你把事务所经营得比她当年还好，留下骄傲的泪水。你发现了姑姑离开的真相——她是为了让你找到自己的道路。这间小事务所，成了所有人的家。",
		Condition:   "全员信任≥70 + 发现姑姑真相 + 成功出道",
	},
	{
		ID: "he-debut", Name: "梦想绽放", Type: EndingHappy,
		Description: "出道舞台上灯光璀璨，三位练习生完美演绎了你们共同创作的出道曲。虽然只是小公司的出道，但每个音符都饱含真心。你在后台热泪盈眶——他们真的做到了。",
		Condition:   "均信任≥50 + 技能达标 + 成功出道",
	},
	{
		ID: "be-bankrupt", Name: "梦碎首尔", Type: EndingBad,
		Description: "账户余额归零。银行的催款电话响个不停，房东贴出了限期搬离通知。练习生们默默收拾行李，谁也不看谁。金敏秀走的时候说了句\"谢谢你\"。你一个人坐在空荡荡的练习室里，霓虹灯在窗外忽明忽暗。",
		Condition:   "金钱降至 0",
	},
	{
		ID: "be-all-leave", Name: "众叛亲离", Type: EndingBad,
		Description: "最后一个练习生也走了。你站在空无一人的事务所里，墙上还贴着当初的训练计划。所有的梦想、承诺、汗水，都随着关门声消散在首尔的夜色中。",
		Condition:   "所有练习生信任<20",
	},
	{
		ID: "ne-landing", Name: "软着陆", Type: EndingNormal,
		Description: "出道不算失败，但也谈不上成功。在竞争残酷的 K-pop 界，他们只是众多新人中不起眼的一组。但至少你们尝试过了，至少你们拥有彼此。有些梦想不需要轰轰烈烈，平安着地已是万幸。",
		Condition:   "出道但综合评分不足",
	},
}

// EndingTypeMeta drives presentation of the ending screen.
var EndingTypeMeta = map[EndingType]struct {
	Label string
	Color string
	Icon  string
}{
	EndingTrue:   {Label: "True Ending", Color: "#ffd700", Icon: "👑"},
	EndingHappy:  {Label: "Happy Ending", Color: "#e91e8c", Icon: "🌟"},
	EndingBad:    {Label: "Bad Ending", Color: "#6b7280", Icon: "💔"},
	EndingNormal: {Label: "Normal Ending", Color: "#f59e0b", Icon: "🌙"},
}
