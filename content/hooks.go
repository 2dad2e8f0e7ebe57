package content

import (
	"fmt"
	"strings"

	"github.com/nathoo/mishap/engine/world"
	"github.com/nathoo/mishap/types"
)

// Puzzle flags. Set once by the triggering action, read as guards.
const (
	flagHasKey          = "has_key"
	flagMusicBoxOpened  = "music_box_opened"
	flagGnomeHelped     = "gnome_helped"
	flagWizardHappy     = "wizard_happy"
	flagBeanstalkGrown  = "beanstalk_grown"
	flagDragonDeepSleep = "dragon_deep_asleep"
	flagLullabyUsed     = "lullaby_used"
)

// attachHooks wires the puzzle behavior onto the loaded world. It
// fails loudly if the Lua data and the hooks have drifted apart.
func attachHooks(w *world.World) error {
	for _, id := range []string{
		"castle_gate", "courtyard", "wizard_tower", "throne_room",
		"forest_path", "forest_clearing", "deep_forest", "cloud_realm",
		"dragon_lair",
	} {
		if w.Rooms[id] == nil {
			return fmt.Errorf("room %q missing from content", id)
		}
	}
	for _, id := range []string{"royal_pudding", "magic_bean", "golden_key", "lullaby_disc"} {
		if w.Objects[id] == nil {
			return fmt.Errorf("object %q missing from content", id)
		}
	}

	attachCastleGate(w.Rooms["castle_gate"])
	if err := attachCourtyard(w.Rooms["courtyard"]); err != nil {
		return err
	}
	attachWizardTower(w.Rooms["wizard_tower"])
	attachThroneRoom(w.Rooms["throne_room"])
	if err := attachForestClearing(w.Rooms["forest_clearing"]); err != nil {
		return err
	}
	attachDeepForest(w.Rooms["deep_forest"])
	attachCloudRealm(w.Rooms["cloud_realm"])
	attachDragonLair(w.Rooms["dragon_lair"])

	attachPudding(w.Objects["royal_pudding"])
	attachBean(w.Objects["magic_bean"])
	attachKey(w.Objects["golden_key"])
	attachDisc(w.Objects["lullaby_disc"])

	w.OnWin = winSequence
	return nil
}

// dialogue emits lines styled as NPC speech.
func dialogue(g types.Game, lines ...string) {
	for _, line := range lines {
		g.SayKind(line, types.LineDialogue)
	}
}

// containsAny reports whether the noun mentions any of the words.
func containsAny(noun string, words ...string) bool {
	noun = strings.ToLower(noun)
	for _, w := range words {
		if strings.Contains(noun, w) {
			return true
		}
	}
	return false
}

// setExamineRun replaces a data-declared examine target (matched by
// one of its keywords) with a Go handler.
func setExamineRun(room *types.Room, keyword string, run func(types.Game)) error {
	for i := range room.Examine {
		for _, k := range room.Examine[i].Keywords {
			if k == keyword {
				room.Examine[i].Run = run
				return nil
			}
		}
	}
	return fmt.Errorf("room %q has no examine target for %q", room.ID, keyword)
}

func attachCastleGate(room *types.Room) {
	room.OnTalk = func(g types.Game, noun string) {
		if containsAny(noun, "guard", "knight", "soldier") {
			dialogue(g,
				"Guard: 'Blessed Saint Graham! You're here! The Royal Pudding has vanished!",
				"The King had us all standing at attention for six hours to explain ourselves.",
				"Six. HOURS. Without toilet breaks.",
				"Listen — check the COURTYARD near the FOUNTAIN. I saw something shiny.",
				"A gnome in the DEEP FOREST reportedly has something useful too. Just",
				"be prepared for a riddle. They always have a riddle.'",
			)
			return
		}
		dialogue(g,
			"The guard waves you north. 'Check the COURTYARD, adventurer!",
			"Near the FOUNTAIN. There's something there. The King is EXTREMELY hungry.'",
		)
	}
}

// openMusicBox is the shared unlock routine, reachable both as
// "open box" in the courtyard and "use key on box". The key may be
// named as the tool or simply carried.
func openMusicBox(g types.Game, tool string) {
	if g.Flag(flagMusicBoxOpened) {
		g.Say("The music box is already open. You've already collected the lullaby disc.")
		return
	}
	if g.Carrying("golden_key") || containsAny(tool, "key", "golden") {
		g.Say("You insert the golden key into the music box keyhole.")
		g.Say("*CLICK* — it fits perfectly! The lid springs open with a gentle musical note!")
		g.Say("Inside, nestled on purple velvet, is a silver enchanted lullaby disc!")
		g.Say("A note reads: 'For emergencies involving sleeping dragons. Do NOT play near the King at bedtime. — I.'")
		g.SetFlag(flagMusicBoxOpened)
		g.MoveObject("lullaby_disc", "courtyard")
		g.AwardOnce("music_box", 15)
		return
	}
	g.Say("The music box has an ornate keyhole. It needs a key.")
	g.Say("(Perhaps a GOLDEN KEY would fit?)")
}

func attachCourtyard(room *types.Room) error {
	room.OnAction = func(g types.Game, verb, noun, secondary string) bool {
		if (verb == "open" || verb == "use") && containsAny(noun, "box", "chest", "music", "lock") {
			openMusicBox(g, secondary)
			return true
		}
		return false
	}
	return setExamineRun(room, "music box", func(g types.Game) {
		if g.Flag(flagMusicBoxOpened) {
			g.Say("The silver music box lies open and empty near the fountain. Its job is done.")
			return
		}
		g.Say("A small silver music box half-buried in the courtyard planter near the fountain.")
		g.Say("It has an ornate keyhole and a royal crest etched on its lid.")
		g.Say("(You wonder if the GOLDEN KEY might fit that lock...)")
	})
}

func attachWizardTower(room *types.Room) {
	room.OnTalk = func(g types.Game, noun string) {
		if !containsAny(noun, "wizard", "ignatius") {
			g.Say("Wizard Ignatius fidgets nervously with his wand.")
			dialogue(g, "'I'm sorry about the pudding. Very, very sorry.'")
			return
		}
		switch {
		case !g.Flag(flagWizardHappy):
			dialogue(g,
				"Wizard Ignatius: 'Oh saints preserve us! I was attempting a CLEANING SPELL.",
				"I sneezed mid-incantation — just slightly — and the pudding WHOOSHED.",
				"I believe it materialized on Dragon Mountain. Which is quite far.",
				"I am deeply, deeply sorry. If you bring me a MAGIC BEAN,",
				"I can prepare something to help you deal with the dragon safely.'",
			)
		case !g.Flag(flagBeanstalkGrown):
			dialogue(g,
				"Wizard: 'The bean is fully imbued! Plant it in the FOREST CLEARING",
				"and it should grow to magnificent heights. Cloud-height, specifically.'",
			)
		default:
			dialogue(g,
				"Wizard: 'You've done it! The beanstalk is tremendous!",
				"Once you're in the dragon's lair, USE the lullaby disc to deepen",
				"the dragon's sleep, THEN take the pudding. Do NOT skip that step.'",
			)
			g.Say("*The wizard looks pointedly meaningful.*")
		}
	}
	room.OnGive = func(g types.Game, noun string) {
		if containsAny(noun, "bean") && g.Carrying("magic_bean") {
			dialogue(g,
				"Wizard: 'Ah! A magic bean! Excellent! Plant this in the",
				"forest clearing and it will grow to the clouds!'",
			)
			g.Say("")
			g.Say("The wizard waves his wand and the bean GLOWS with power!")
			g.SetFlag(flagWizardHappy)
			g.AwardOnce("wizard", 20)
			return
		}
		g.Say("The wizard doesn't want that.")
	}
}

func attachThroneRoom(room *types.Room) {
	room.OnTalk = func(g types.Game, noun string) {
		if !containsAny(noun, "king", "monarch", "majesty") {
			g.Say("The King drums his fingers in a complex rhythmic pattern.")
			g.Say("This appears to be Morse code for 'pudding'. Or possibly just anxiety.")
			return
		}
		if g.Carrying("royal_pudding") {
			dialogue(g, "King: *inhales deeply* 'Is that... is that VANILLA I smell?!'")
			g.Say("He's seen it. He KNOWS. The room fills with emotional tension.")
			return
		}
		dialogue(g,
			"King: 'WHERE. IS. MY. PUDDING?!",
			"Do you understand how LONG I've been without pudding?",
			"I have done twelve decrees, fired four servants, and",
			"am currently threatening a fifth. BRING ME MY PUDDING!'",
		)
		g.Say("")
		g.Say("(The King looks briefly at the empty throne-room, then at you.)")
		dialogue(g, "'Also... the wizard mentioned a GOLDEN KEY in the courtyard.'")
	}
	room.OnGive = func(g types.Game, noun string) {
		if containsAny(noun, "pudding") && g.Carrying("royal_pudding") {
			// The win check fires at end of turn.
			g.Say("You present the Royal Pudding to the King!")
			return
		}
		dialogue(g, "The King glares. 'Unless that is a pudding, I do not want it.'")
	}
}

func attachForestClearing(room *types.Room) error {
	room.OnClimb = func(g types.Game, noun string) {
		if noun != "" && noun != "up" && !containsAny(noun, "beanstalk", "bean", "stalk", "vine") {
			g.Say("You can't climb that. (You tried. Gravity won.)")
			return
		}
		if g.Flag(flagBeanstalkGrown) {
			g.EnterRoom("cloud_realm")
			return
		}
		g.Say("There's nothing to climb here.")
	}
	return setExamineRun(room, "beanstalk", func(g types.Game) {
		if g.Flag(flagBeanstalkGrown) {
			g.Say("The mighty beanstalk twists upward through the canopy and into the clouds.")
			g.Say("It smells faintly of Brussels sprouts. You will never tell the King about that.")
			return
		}
		g.Say("There's just dark soil here. Maybe you need to PLANT something?")
	})
}

// gnomeRiddle is the prompt the gnome repeats until someone finally
// answers it.
func gnomeRiddle(g types.Game) {
	dialogue(g,
		"Gnome: 'Halt! Answer my riddle or you shall NOT pass!",
		"I have been waiting here for FORTY YEARS to ask this.'",
	)
	g.Say("")
	dialogue(g,
		"'What has roots as nobody sees,",
		" Is taller than trees,",
		" Up, up, up it goes,",
		" And yet it never grows?'",
	)
	g.Say("")
	g.SayKind("(Type your answer! Hint: it rhymes with MOUNTAIN)", types.LineSystem)
}

func attachDeepForest(room *types.Room) {
	// While the riddle stands, the gnome intercepts every line typed
	// in this room as an attempted answer. Mentioning him gets the
	// riddle restated instead of a rejection.
	room.OnRawInput = func(g types.Game, raw string) bool {
		if g.Flag(flagGnomeHelped) {
			return false
		}
		if strings.Contains(raw, "mountain") {
			dialogue(g,
				"Gnome: 'CORRECT! Mountains have roots in the earth, are taller",
				"than trees, reach up to the sky, yet never grow!'",
			)
			g.Say("")
			g.Say("The gnome smiles and steps aside.")
			dialogue(g, "'You may take the magic bean as your reward!'")
			g.Say("")
			g.Say("The gnome vanishes in a puff of smoke!")
			g.SetFlag(flagGnomeHelped)
			g.AwardOnce("riddle", 20)
			g.OpenExit("deep_forest", "east", "forest_clearing")
			return true
		}
		if containsAny(raw, "gnome", "talk", "riddle", "hello") {
			gnomeRiddle(g)
			return true
		}
		dialogue(g, "Gnome: 'No, that's not it! Think harder!'")
		return true
	}
	room.OnTalk = func(g types.Game, noun string) {
		dialogue(g,
			"Gnome: 'You solved my riddle! Forty years I've waited and",
			"someone finally got it right on the... what attempt was that?'",
			"'Take the bean. Go. Bring back the pudding. Good luck.'",
			"'Also please don't tell anyone I had to give you hints.'",
		)
	}
	room.OnAction = func(g types.Game, verb, noun, secondary string) bool {
		if verb == "take" && containsAny(noun, "bean", "sack") && !g.Flag(flagGnomeHelped) {
			g.Say("The gnome blocks your way! You can't take it yet.")
			return true
		}
		return false
	}
}

func attachCloudRealm(room *types.Room) {
	room.OnClimb = func(g types.Game, noun string) {
		if noun == "" || noun == "down" || containsAny(noun, "beanstalk", "stalk", "vine") {
			g.Say("You clamber down the beanstalk, leaf by enormous leaf.")
			g.EnterRoom("forest_clearing")
			return
		}
		g.Say("You can't climb that. (You tried. Gravity won.)")
	}
}

func attachDragonLair(room *types.Room) {
	room.OnAction = func(g types.Game, verb, noun, secondary string) bool {
		if verb == "take" && containsAny(noun, "gold", "treasure", "coin", "jewel", "gem") {
			g.Die("You reach for the gold. The dragon's eye opens. Both eyes open.\n\n" +
				"It stops snoring. It looks at you. You look at it.\n\n" +
				"The dragon, it turns out, has excellent hearing AND a very short temper.\n" +
				"You were, briefly, extra crispy.")
			return true
		}
		return false
	}
	room.OnTalk = func(g types.Game, noun string) {
		if containsAny(noun, "dragon", "beast", "creature") {
			if !g.Flag(flagDragonDeepSleep) {
				g.Die("You clear your throat to address the dragon.\n\n" +
					"The dragon opens one eye.\n\n" +
					"You remember that waking dragons is widely considered poor life strategy.\n" +
					"The dragon's opinion on being woken for conversation is\n" +
					"even less favourable than its opinion on pudding theft.")
				return
			}
			g.Say("The dragon is in a deep, lullaby-assisted slumber.")
			g.Say("It mumbles something about mountains and treasure.")
			g.Say("You wisely do not reply.")
			return
		}
		g.Say("You speak into the cave. The echo sounds back three seconds later.")
		g.Say("The dragon sleeps. The pudding waits. What are you doing?")
	}
}

func attachPudding(obj *types.Object) {
	obj.OnExamine = func(g types.Game) {
		g.Say("The dome of cream. The crown of cherries. The golden glaze.")
		g.Say("You feel a powerful emotional response simply looking at it.")
		g.Say("If you could just... reach out... take it... but the dragon might hear...")
		if !g.Flag(flagDragonDeepSleep) {
			g.Say("(The dragon stirs slightly. Maybe deepen its sleep first.)")
		}
	}
	obj.OnTake = func(g types.Game) {
		if !g.Flag(flagDragonDeepSleep) {
			g.Die("You reach for the Royal Pudding.\n\n" +
				"The dragon's eye opens.\nBoth eyes open.\n\n" +
				"One great claw descends very quickly.\n\n" +
				"You learn, in your final moments, that dragons are extremely\n" +
				"possessive about creamy desserts. You should have used the lullaby disc.")
			return
		}
		g.Say("You carefully lift the Royal Pudding from its pedestal...")
		g.Say("The dragon snores in deep, lullaby-assisted contentment.")
		g.Say("You've got the pudding! NOW RUN BACK TO THE CASTLE!")
		g.AwardOnce("pudding", 50)
	}
}

func attachBean(obj *types.Object) {
	obj.OnExamine = func(g types.Game) {
		g.Say("A single bean, glowing faintly green with contained magical energy.")
		g.Say("It smells faintly of... Brussels sprouts? How unfortunate.")
		g.Say("No wonder the King hates vegetables. The wizard has a lot to answer for.")
		if !g.Flag(flagWizardHappy) {
			g.Say("(The wizard should be very interested in this bean.)")
		}
	}
	obj.OnTake = func(g types.Game) {
		g.Say("You take the magic bean. It glows faintly and hums with possibility.")
		g.AwardOnce("bean", 15)
	}
	obj.OnUse = func(g types.Game, secondary string) {
		if g.CurrentRoom() != "forest_clearing" {
			g.Say("Find some fertile soil to plant this in.")
			return
		}
		if !g.Flag(flagWizardHappy) {
			g.Say("The bean glows feebly. Show it to the wizard first.")
			return
		}
		if g.Flag(flagBeanstalkGrown) {
			g.Say("The beanstalk is already growing magnificently!")
			return
		}
		g.Say("You plant the magic bean in the fertile soil...")
		g.Say("")
		g.Say("The ground rumbles! The bean sprouts and grows...")
		g.Say("and GROWS... and GROWS!")
		g.Say("")
		g.Say("A massive beanstalk now reaches into the clouds!")
		g.Say("You can CLIMB UP to reach the clouds!")
		g.SetFlag(flagBeanstalkGrown)
		g.MoveObject("magic_bean", "")
		g.OpenExit("forest_clearing", "up", "cloud_realm")
		g.AwardOnce("planting", 30)
	}
}

func attachKey(obj *types.Object) {
	obj.OnExamine = func(g types.Game) {
		g.Say("An ornate golden key, a tiny crown engraved on the handle.")
		g.Say("The shaft is stamped: 'CASTLE MASTER KEY — DO NOT DUPLICATE'.")
		g.Say("Someone has clearly duplicated it. (You can tell from the filing marks.)")
		g.Say("Near the courtyard fountain there seems to be a lock that might fit this...")
	}
	obj.OnTake = func(g types.Game) {
		g.Say("You pick up the golden key. Something about it feels important.")
		g.SetFlag(flagHasKey)
		g.AwardOnce("key", 10)
	}
	obj.OnUse = func(g types.Game, secondary string) {
		if g.CurrentRoom() == "courtyard" {
			openMusicBox(g, "key")
			return
		}
		if containsAny(secondary, "box", "music", "chest", "lock") {
			g.Say("That box isn't here. The music box is near the courtyard fountain.")
			return
		}
		g.Say("The key shimmers suggestively. It's looking for something to unlock.")
		g.Say("(Try using it near the courtyard fountain.)")
	}
}

func attachDisc(obj *types.Object) {
	obj.OnExamine = func(g types.Game) {
		g.Say("The disc is inscribed with curling musical notation in silver ink.")
		g.Say("Margins are annotated: 'Proven effective on: bears (3/3), trolls (1/3),")
		g.Say("one very confused knight (still unclear). Side effects: prophetic dreams.'")
		g.Say("'USE in presence of sleeping creature to amplify slumber tenfold.'")
	}
	obj.OnTake = func(g types.Game) {
		g.Say("You pick up the lullaby disc. It hums softly and pleasantly.")
		g.Say("A note is attached: 'INSTRUCTIONS: Hold near sleeping creature. Hum along.'")
		g.AwardOnce("disc", 10)
	}
	obj.OnUse = func(g types.Game, secondary string) {
		if g.CurrentRoom() != "dragon_lair" {
			g.Say("You hum along with the disc. It produces a beautiful melody.")
			g.Say("A nearby butterfly falls asleep mid-flutter. Oops. Not the right audience.")
			return
		}
		if g.Flag(flagLullabyUsed) {
			g.Say("The dragon is already in a lullaby-deepened slumber.")
			g.Say("The pudding is right there. Take it!")
			return
		}
		g.Say("You hold out the lullaby disc and begin to hum.")
		g.Say("The disc glows a warm silver-blue. A gentle melody fills the cave.")
		g.Say("The dragon's freight-train snoring softens... to a contented purr.")
		g.Say("Its muscles relax completely. It smiles very slightly in its sleep.")
		g.Say("")
		g.Say("The dragon is now in a deep, magically-enhanced lullaby slumber.")
		g.Say("The pudding is yours for the TAKING!")
		g.SetFlag(flagDragonDeepSleep)
		g.SetFlag(flagLullabyUsed)
		g.AwardOnce("lullaby", 25)
	}
}

// winSequence plays when the pudding reaches the throne room.
func winSequence(g types.Game) {
	g.Say("")
	g.SayKind("========================================", types.LineTitle)
	g.Say("You present the Royal Pudding to the King!")
	g.Say("")
	dialogue(g,
		"King: 'MY PUDDING! You've done it, Sir Graham!'",
		"'You are truly the bravest and most pudding-focused",
		"knight in all the kingdom!'",
	)
	g.Say("")
	g.Say("The King immediately begins eating the pudding with")
	g.Say("a giant spoon, a look of pure bliss on his face.")
	g.Say("")
	dialogue(g,
		"Wizard Ignatius peeks in: 'Sorry about that whole",
		"teleportation mishap. I'll try to sneeze AWAY from",
		"my spellbook next time.'",
	)
	g.SayKind("========================================", types.LineTitle)
	g.AwardOnce("win", 50)
	g.Say("")
	g.SayKind("*** YOU HAVE WON! ***", types.LineTitle)
	g.Sayf("Final Score: %d/%d", g.Score(), g.MaxScore())
	g.Say("")
	g.Say("Thank you for playing The Magical Mishap!")
	g.Say("A Sierra-style adventure by KQVR Productions")
	g.SayKind("========================================", types.LineTitle)
}
