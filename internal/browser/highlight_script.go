package browser

// highlightScript outlines the matched elements and restores their inline
// style once duration milliseconds have passed. It returns the match count.
const highlightScript = `({selector, kind, duration}) => {
	let nodes = [];

	if (kind === 'xpath') {
		const snapshot = document.evaluate(selector, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
		for (let i = 0; i < snapshot.snapshotLength; i++) {
			nodes.push(snapshot.snapshotItem(i));
		}
	} else {
		nodes = Array.from(document.querySelectorAll(selector));
	}

	nodes = nodes.filter((node) => node && node.nodeType === Node.ELEMENT_NODE);

	nodes.forEach((el) => {
		const previous = {
			outline: el.style.outline,
			outlineOffset: el.style.outlineOffset,
			backgroundColor: el.style.backgroundColor,
		};

		el.style.outline = '3px solid #ff4757';
		el.style.outlineOffset = '2px';
		el.style.backgroundColor = 'rgba(255, 71, 87, 0.1)';

		setTimeout(() => {
			el.style.outline = previous.outline;
			el.style.outlineOffset = previous.outlineOffset;
			el.style.backgroundColor = previous.backgroundColor;
		}, duration);
	});

	return nodes.length;
}`
