package jquery

// MethodClass describes what a collection method returns.
type MethodClass int

// Method classes.
const (
	// MethodUnknown is any name outside the known $.fn API.
	MethodUnknown MethodClass = iota
	// MethodChainable returns a collection.
	MethodChainable
	// MethodNever never returns a collection.
	MethodNever
	// MethodAccessor returns a value when called without arguments.
	MethodAccessor
	// MethodValueAccessor returns a value when called without arguments or
	// with one non-object argument.
	MethodValueAccessor
	// MethodSizing returns a value when called without arguments or with a
	// single boolean literal.
	MethodSizing
	// MethodQueue returns the queue array when called without arguments or
	// with a single string literal.
	MethodQueue
)

var methodClassNames = [...]string{
	MethodUnknown:       "unknown",
	MethodChainable:     "chainable",
	MethodNever:         "never",
	MethodAccessor:      "accessor",
	MethodValueAccessor: "valueAccessor",
	MethodSizing:        "sizing",
	MethodQueue:         "queue",
}

func (c MethodClass) String() string {
	if int(c) < len(methodClassNames) {
		return methodClassNames[c]
	}
	return "unknown"
}

var nonCollectionReturningMethods = []string{
	"hasClass",
	"is",
	"index",
	"get",
	"serialize",
	"serializeArray",
	"size",
	"toArray",
	"triggerHandler",
	"promise",
}

var nonCollectionReturningAccessors = []string{
	"height",
	"html",
	"innerHeight",
	"innerWidth",
	"offset",
	"position",
	"scrollLeft",
	"scrollTop",
	"text",
	"val",
	"width",
}

var nonCollectionReturningValueAccessors = []string{
	"attr",
	"css",
	"data",
	"prop",
}

var sizingMethods = []string{
	"outerHeight",
	"outerWidth",
}

const queueMethod = "queue"

// allMethods is every documented $.fn method.
var allMethods = []string{
	"add", "addBack", "addClass", "after", "ajaxComplete", "ajaxError",
	"ajaxSend", "ajaxStart", "ajaxStop", "ajaxSuccess", "andSelf", "animate",
	"append", "appendTo", "attr", "before", "bind", "blur", "change",
	"children", "clearQueue", "click", "clone", "closest", "contents",
	"contextmenu", "css", "data", "dblclick", "delay", "delegate", "dequeue",
	"detach", "die", "each", "empty", "end", "eq", "error", "even", "fadeIn",
	"fadeOut", "fadeTo", "fadeToggle", "filter", "find", "finish", "first",
	"focus", "focusin", "focusout", "get", "has", "hasClass", "height", "hide",
	"hover", "html", "index", "innerHeight", "innerWidth", "insertAfter",
	"insertBefore", "is", "keydown", "keypress", "keyup", "last", "live",
	"load", "map", "mousedown", "mouseenter", "mouseleave", "mousemove",
	"mouseout", "mouseover", "mouseup", "next", "nextAll", "nextUntil", "not",
	"odd", "off", "offset", "offsetParent", "on", "one", "outerHeight",
	"outerWidth", "parent", "parents", "parentsUntil", "position", "prepend",
	"prependTo", "prev", "prevAll", "prevUntil", "promise", "prop", "pushStack",
	"queue", "ready", "remove", "removeAttr", "removeClass", "removeData",
	"removeProp", "replaceAll", "replaceWith", "resize", "scroll",
	"scrollLeft", "scrollTop", "select", "serialize", "serializeArray", "show",
	"siblings", "size", "slice", "slideDown", "slideToggle", "slideUp", "stop",
	"submit", "text", "toArray", "toggle", "toggleClass", "trigger",
	"triggerHandler", "unbind", "undelegate", "unload", "unwrap", "val",
	"width", "wrap", "wrapAll", "wrapInner",
}

// methodTable is the merged, read-only view of the lists above. Later
// lists win over allMethods.
var methodTable = buildMethodTable()

func buildMethodTable() map[string]MethodClass {
	table := make(map[string]MethodClass, len(allMethods))
	for _, name := range allMethods {
		table[name] = MethodChainable
	}
	for _, name := range nonCollectionReturningMethods {
		table[name] = MethodNever
	}
	for _, name := range nonCollectionReturningAccessors {
		table[name] = MethodAccessor
	}
	for _, name := range nonCollectionReturningValueAccessors {
		table[name] = MethodValueAccessor
	}
	for _, name := range sizingMethods {
		table[name] = MethodSizing
	}
	table[queueMethod] = MethodQueue
	return table
}

// LookupMethod returns the built-in class of a $.fn method name.
func LookupMethod(name string) MethodClass {
	return methodTable[name]
}

// IsKnownMethod reports whether name is part of the $.fn API.
func IsKnownMethod(name string) bool {
	return methodTable[name] != MethodUnknown
}

// KnownMethods returns a copy of the $.fn method list.
func KnownMethods() []string {
	return append([]string(nil), allMethods...)
}
