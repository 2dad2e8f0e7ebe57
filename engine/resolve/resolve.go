// Package resolve executes parsed commands against the world: noun
// matching, hook precedence, and the stock responses for everything
// the content doesn't handle.
//
// Hook precedence per verb follows a fixed order (room interceptors
// before generic behavior, object hooks before room fallbacks); the
// flavor lists rotate round-robin so repeated commands stay varied but
// deterministic.
package resolve

import (
	"strings"

	"github.com/nathoo/mishap/engine/world"
	"github.com/nathoo/mishap/types"
)

// Resolver dispatches commands. It carries the rotation indices for
// the stock response lists, so one Resolver serves one session.
type Resolver struct {
	confused rotor
	blocked  rotor
	notHere  rotor
	dunno    rotor
	eat      rotor
	push     rotor
	pull     rotor
	listen   rotor
	wait     rotor
	sit      rotor
	lonely   rotor
}

// New creates a Resolver with all rotations at their first line.
func New() *Resolver {
	return &Resolver{
		confused: rotor{lines: []string{
			"I don't understand that. (Type HELP for commands)",
			"That verb isn't in this kingdom.",
			"Even the castle gargoyles look puzzled by that.",
			"The parser stares at you blankly.",
			"Try something like: EXAMINE FOUNTAIN or TAKE KEY",
			"Your lips moved but nothing game-mechanical happened.",
			"The wizard could parse that, but he's busy apologising.",
		}},
		blocked: rotor{lines: []string{
			"You can't go that way.",
			"A solid wall disagrees with your travel plans.",
			"Nothing but stone in that direction.",
		}},
		notHere: rotor{lines: []string{
			"You don't see that here.",
			"Nothing matching that is visible.",
			"You reach for it, but grasp only air.",
		}},
		dunno: rotor{lines: []string{
			"You don't see anything special about that.",
			"Nothing remarkable there. Move along.",
			"You stare at it intently. It remains unremarkable.",
		}},
		eat: rotor{lines: []string{
			"That's not food! (Well, not for you anyway.)",
			"You resist the urge to eat that.",
			"Your stomach politely declines.",
			"The food critics of the kingdom would rate that: inedible.",
		}},
		push: rotor{lines: []string{
			"You push the %s. It pushes back (philosophically).",
			"The %s wobbles slightly, then settles back.",
			"Pushing it accomplishes nothing. (You note this for posterity.)",
			"The universe remains indifferent.",
		}},
		pull: rotor{lines: []string{
			"You pull on the %s. Mild strain ensues.",
			"The %s resists. You don't insist.",
			"You give it a firm tug. It remains smugly in place.",
		}},
		listen: rotor{lines: []string{
			"You listen carefully. Birds, distant wind, and your own heartbeat.",
			"The world hums with quiet mystery. Or possibly just the fountain.",
			"You strain your ears. Not quite enough plot is happening to generate sound.",
		}},
		wait: rotor{lines: []string{
			"Time passes. Nothing happens. The pudding remains missed.",
			"You wait. A breeze stirs. The kingdom holds its breath.",
			"Five seconds of valuable adventure time: elapsed.",
			"You twirl your thumbs. Somewhere, a king grows hungrier.",
		}},
		sit: rotor{lines: []string{
			"You sit down briefly, then remember you're on a quest.",
			"The ground is harder than it looks. You stand back up.",
			"You sit. Nothing in particular happens. You stand.",
		}},
		lonely: rotor{lines: []string{
			"There's nobody here to talk to.",
			"The walls don't respond. (You tried.)",
			"Hello? ... Only echoes reply.",
		}},
	}
}

// rotor cycles through a fixed list of lines round-robin.
type rotor struct {
	lines []string
	idx   int
}

func (r *rotor) next() string {
	line := r.lines[r.idx%len(r.lines)]
	r.idx++
	return line
}

// Dispatch executes one command against the world. Every verb gets a
// response; unknown verbs rotate through the confused lines.
func (r *Resolver) Dispatch(ctx *world.Context, cmd types.Command) {
	switch cmd.Verb {
	case "go":
		r.move(ctx, cmd.Noun)
	case "look":
		if cmd.Noun != "" {
			r.examine(ctx, cmd.Noun)
		} else {
			ctx.EnterRoom(ctx.CurrentRoom())
		}
	case "examine":
		r.examine(ctx, cmd.Noun)
	case "take":
		r.take(ctx, cmd.Noun)
	case "drop":
		r.drop(ctx, cmd.Noun)
	case "use":
		r.use(ctx, cmd.Noun, cmd.Secondary)
	case "open":
		r.open(ctx, cmd.Noun, cmd.Secondary)
	case "inventory":
		r.showInventory(ctx)
	case "talk":
		r.talk(ctx, cmd.Noun)
	case "give":
		r.give(ctx, cmd.Noun)
	case "eat":
		r.eatCmd(ctx, cmd.Noun)
	case "climb":
		r.climb(ctx, cmd.Noun)
	case "smell":
		r.smell(ctx, cmd.Noun)
	case "knock":
		r.knock(ctx, cmd.Noun)
	case "push":
		r.pushCmd(ctx, cmd.Noun)
	case "pull":
		r.pullCmd(ctx, cmd.Noun)
	case "listen":
		r.listenCmd(ctx, cmd.Noun)
	case "throw":
		r.throwCmd(ctx, cmd.Noun)
	case "wait":
		ctx.Say(r.wait.next())
	case "sit":
		r.sitCmd(ctx)
	case "wave":
		r.wave(ctx, cmd.Noun)
	default:
		ctx.SayKind(r.confused.next(), types.LineSystem)
	}
}

func (r *Resolver) move(ctx *world.Context, direction string) {
	if direction == "" {
		ctx.Say("Go where?")
		return
	}
	room := ctx.Room()
	if room == nil {
		ctx.Say(r.blocked.next())
		return
	}
	target, ok := room.Exits[direction]
	if !ok {
		ctx.Say(r.blocked.next())
		return
	}
	if guard, ok := room.ExitGuards[direction]; ok && guard.Open != nil && !guard.Open(ctx.State) {
		ctx.Say(guard.Hint)
		return
	}
	ctx.EnterRoom(target)
}

func (r *Resolver) take(ctx *world.Context, noun string) {
	if noun == "" {
		ctx.Say("Take what? The open air?")
		return
	}
	// The room intercepts special take actions first.
	room := ctx.Room()
	if room != nil && room.OnAction != nil && room.OnAction(ctx, "take", noun, "") {
		return
	}
	obj := findObject(ctx, noun, ctx.CurrentRoom())
	if obj == nil {
		ctx.Say(r.notHere.next())
		return
	}
	if !obj.Takeable {
		ctx.Say("You can't take that! (Believe me, you tried.)")
		return
	}
	prev := obj.Location
	ctx.MoveObject(obj.ID, types.LocInventory)
	if obj.OnTake == nil {
		ctx.Sayf("You pick up the %s.", obj.Name)
		return
	}
	// The hook narrates the pickup itself.
	obj.OnTake(ctx)
	// A fatal take leaves the inventory unchanged.
	if ctx.Died() {
		ctx.MoveObject(obj.ID, prev)
	}
}

func (r *Resolver) drop(ctx *world.Context, noun string) {
	if noun == "" {
		ctx.Say("Drop what?")
		return
	}
	obj := findObject(ctx, noun, types.LocInventory)
	if obj == nil {
		ctx.Say("You don't have that.")
		return
	}
	ctx.MoveObject(obj.ID, ctx.CurrentRoom())
	ctx.Sayf("You drop the %s.", obj.Name)
}

func (r *Resolver) examine(ctx *world.Context, noun string) {
	if noun == "" {
		ctx.Say("Examine what, exactly?")
		return
	}
	// Inventory and room objects first.
	if obj := findVisibleObject(ctx, noun); obj != nil {
		ctx.Say(obj.Description)
		if obj.OnExamine != nil {
			obj.OnExamine(ctx)
		}
		return
	}
	// The room's named examine targets.
	room := ctx.Room()
	if room != nil {
		for i := range room.Examine {
			target := &room.Examine[i]
			if matchesKeywords(noun, target.Keywords) {
				if target.Run != nil {
					target.Run(ctx)
				} else {
					ctx.Say(target.Text)
				}
				return
			}
		}
		if room.OnAction != nil && room.OnAction(ctx, "examine", noun, "") {
			return
		}
	}
	ctx.Say(r.dunno.next())
}

func (r *Resolver) use(ctx *world.Context, noun, secondary string) {
	if noun == "" {
		ctx.Say("Use what?")
		return
	}
	obj := findObject(ctx, noun, types.LocInventory)
	if obj == nil {
		obj = findObject(ctx, noun, ctx.CurrentRoom())
	}
	if obj != nil && obj.OnUse != nil {
		obj.OnUse(ctx, secondary)
		return
	}
	room := ctx.Room()
	if room != nil && room.OnAction != nil && room.OnAction(ctx, "use", noun, secondary) {
		return
	}
	if obj != nil {
		ctx.Say("You're not sure how to use that here.")
	} else {
		ctx.Say("You don't see that here.")
	}
}

func (r *Resolver) open(ctx *world.Context, noun, secondary string) {
	if noun == "" {
		ctx.Say("Open what?")
		return
	}
	room := ctx.Room()
	if room != nil && room.OnAction != nil && room.OnAction(ctx, "open", noun, secondary) {
		return
	}
	ctx.Say("You can't open that.")
}

func (r *Resolver) talk(ctx *world.Context, noun string) {
	room := ctx.Room()
	if room != nil && room.OnTalk != nil {
		room.OnTalk(ctx, noun)
		return
	}
	ctx.Say(r.lonely.next())
}

func (r *Resolver) give(ctx *world.Context, noun string) {
	room := ctx.Room()
	if room != nil && room.OnGive != nil {
		room.OnGive(ctx, noun)
		return
	}
	ctx.Say("There's nobody here to give anything to.")
}

func (r *Resolver) eatCmd(ctx *world.Context, noun string) {
	if noun == "" {
		ctx.Say("Eat what?")
		return
	}
	ctx.Say(r.eat.next())
}

func (r *Resolver) climb(ctx *world.Context, noun string) {
	if noun == "" {
		ctx.Say("Climb what?")
		return
	}
	room := ctx.Room()
	if room != nil && room.OnClimb != nil {
		room.OnClimb(ctx, noun)
		return
	}
	ctx.Say("You can't climb that. (You tried. Gravity won.)")
}

func (r *Resolver) smell(ctx *world.Context, noun string) {
	for key, response := range ctx.World.Smells {
		if matchesKeywords(noun, []string{key}) {
			ctx.Say(response)
			return
		}
	}
	if ctx.World.SmellDefault != "" {
		ctx.Say(ctx.World.SmellDefault)
		return
	}
	ctx.Say("You smell nothing unusual.")
}

func (r *Resolver) knock(ctx *world.Context, noun string) {
	if noun == "" {
		ctx.Say("Knock on what? Your own head?")
		return
	}
	room := ctx.Room()
	if room != nil && room.OnAction != nil && room.OnAction(ctx, "knock", noun, "") {
		return
	}
	ctx.Say("You knock. Nothing answers. Probably for the best.")
}

func (r *Resolver) pushCmd(ctx *world.Context, noun string) {
	if noun == "" {
		ctx.Say("Push what?")
		return
	}
	sayMaybeFormatted(ctx, r.push.next(), noun)
}

func (r *Resolver) pullCmd(ctx *world.Context, noun string) {
	if noun == "" {
		ctx.Say("Pull what?")
		return
	}
	sayMaybeFormatted(ctx, r.pull.next(), noun)
}

func (r *Resolver) listenCmd(ctx *world.Context, noun string) {
	room := ctx.Room()
	if room != nil && room.OnAction != nil && room.OnAction(ctx, "listen", noun, "") {
		return
	}
	ctx.Say(r.listen.next())
}

func (r *Resolver) throwCmd(ctx *world.Context, noun string) {
	if noun == "" {
		ctx.Say("Throw what?")
		return
	}
	obj := findObject(ctx, noun, types.LocInventory)
	if obj == nil {
		ctx.Say("You don't have that to throw.")
		return
	}
	ctx.Sayf("You hurl the %s with gusto.", obj.Name)
	ctx.Say("It bounces off the wall and lands at your feet. Anticlimactic.")
}

func (r *Resolver) sitCmd(ctx *world.Context) {
	if ctx.CurrentRoom() == "throne_room" {
		ctx.Say("You consider sitting on the King's throne.")
		ctx.Say("The King drums his fingers. Very. Loudly. You wisely reconsider.")
		return
	}
	ctx.Say(r.sit.next())
}

func (r *Resolver) wave(ctx *world.Context, noun string) {
	if noun == "" {
		ctx.Say("You wave at the air. The air does not wave back.")
		return
	}
	ctx.Sayf("You wave at the %s. They look mildly puzzled.", noun)
}

func (r *Resolver) showInventory(ctx *world.Context) {
	inv := ctx.Inventory()
	if len(inv) == 0 {
		ctx.Say("You are empty-handed. (Just like your quest, so far.)")
		return
	}
	ctx.Say("You are carrying:")
	for _, id := range inv {
		if obj := ctx.World.Objects[id]; obj != nil {
			ctx.Say("  ► " + obj.Name)
		}
	}
}

// sayMaybeFormatted handles flavor lines that may or may not contain a
// %s slot for the noun.
func sayMaybeFormatted(ctx *world.Context, line, noun string) {
	if strings.Contains(line, "%s") {
		ctx.Sayf(line, noun)
	} else {
		ctx.Say(line)
	}
}

// findObject returns the object matching noun at the given location,
// or nil. Matching is exact-token: the noun must equal the object's
// name, an alias, its ID, or one whole word of its name.
func findObject(ctx *world.Context, noun, location string) *types.Object {
	noun = strings.ToLower(strings.TrimSpace(noun))
	if noun == "" {
		return nil
	}
	for _, id := range ctx.World.ObjectOrder {
		obj := ctx.World.Objects[id]
		if obj == nil || obj.Location != location {
			continue
		}
		if matchesObject(obj, noun) {
			return obj
		}
	}
	return nil
}

// findVisibleObject searches the inventory, then the current room.
func findVisibleObject(ctx *world.Context, noun string) *types.Object {
	if obj := findObject(ctx, noun, types.LocInventory); obj != nil {
		return obj
	}
	return findObject(ctx, noun, ctx.CurrentRoom())
}

func matchesObject(obj *types.Object, noun string) bool {
	name := strings.ToLower(obj.Name)
	if noun == name {
		return true
	}
	for _, word := range strings.Fields(name) {
		if noun == word {
			return true
		}
	}
	for _, alias := range obj.Aliases {
		if noun == strings.ToLower(alias) {
			return true
		}
	}
	idLower := strings.ToLower(obj.ID)
	if noun == idLower || strings.ReplaceAll(noun, " ", "_") == idLower {
		return true
	}
	return false
}

// matchesKeywords reports whether any whole word of the noun equals
// any of the keywords, or the full noun phrase does.
func matchesKeywords(noun string, keywords []string) bool {
	noun = strings.ToLower(strings.TrimSpace(noun))
	if noun == "" {
		return false
	}
	words := strings.Fields(noun)
	for _, key := range keywords {
		key = strings.ToLower(key)
		if noun == key {
			return true
		}
		for _, w := range words {
			if w == key {
				return true
			}
		}
	}
	return false
}
